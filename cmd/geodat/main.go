// Command geodat builds MaxMind legacy .dat GeoIP databases from CSV
// sources. Usage:
//
//	geodat <subcommand> [flags] <csv-file...>
//
// Subcommands mirror the eight enumerated legacy editions (mmasn,
// mmasn6, mmisp, mmorg, mmcity, mmcity6, mmcountry, mmcountry6), plus
// flat (merge City blocks with locations into one flat CSV) and test
// (diff two built .dat files over a list of addresses).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net/netip"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/geodat/geodat/internal/config"
	"github.com/geodat/geodat/internal/csvsrc"
	"github.com/geodat/geodat/internal/dat"
	"github.com/geodat/geodat/internal/legacyreader"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	sub := os.Args[1]
	if sub == "-version" || sub == "--version" {
		fmt.Printf("geodat %s (built %s)\n", version, buildTime)
		return
	}

	if err := dispatch(sub, os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: geodat <subcommand> [flags] <csv-file...>")
	fmt.Fprintln(os.Stderr, "subcommands: mmasn mmasn6 mmisp mmorg mmcity mmcity6 mmcountry mmcountry6 flat test")
}

func dispatch(sub string, args []string) error {
	switch sub {
	case "mmasn":
		return buildCmd(args, dat.ASN, csvsrc.ReadASN)
	case "mmasn6":
		return buildCmd(args, dat.ASNv6, csvsrc.ReadASNv6)
	case "mmisp":
		return buildCmd(args, dat.ISP, csvsrc.ReadASN)
	case "mmorg":
		return buildCmd(args, dat.Org, csvsrc.ReadASN)
	case "mmcountry":
		return buildCmd(args, dat.Country, csvsrc.ReadCountry)
	case "mmcountry6":
		return buildCmd(args, dat.CountryV6, csvsrc.ReadCountryV6)
	case "mmcity":
		return cityCmd(args, dat.City)
	case "mmcity6":
		return cityCmd(args, dat.CityV6)
	case "flat":
		return flatCmd(args)
	case "test":
		return testCmd(args)
	default:
		usage()
		return fmt.Errorf("unknown subcommand %q", sub)
	}
}

// commonFlags are shared by every build subcommand.
type commonFlags struct {
	configPath string
	out        string
	logLevel   string
}

func bindCommon(fs *flag.FlagSet) *commonFlags {
	cf := &commonFlags{}
	fs.StringVar(&cf.configPath, "config", "", "Path to geodat.yaml configuration file")
	fs.StringVar(&cf.out, "o", "out.dat", "Output .dat path")
	fs.StringVar(&cf.logLevel, "log-level", "", "Override log level (debug/info/warn/error)")
	return cf
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadFromFile(path)
}

func buildCmd(args []string, ed dat.Edition, read func(io.Reader) ([]dat.Net, error)) error {
	fs := flag.NewFlagSet(ed.Name, flag.ExitOnError)
	cf := bindCommon(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%s: at least one input CSV file is required", ed.Name)
	}

	cfg, err := loadConfig(cf.configPath)
	if err != nil {
		return err
	}
	if cf.logLevel != "" {
		cfg.LogLevel = cf.logLevel
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	b := dat.NewBuilder(ed, log)
	for _, path := range fs.Args() {
		if err := insertFrom(b, path, read); err != nil {
			return err
		}
	}

	log.Info("parsed source rows", zap.Int("rows", b.Stats().RowCount), zap.Int("nets", b.Stats().NetCount))

	if cfg.StrictSegments {
		if err := b.ValidateSegmentCount(); err != nil {
			return err
		}
	}

	if err := writeAtomic(cf.out, b.Write); err != nil {
		return err
	}
	log.Info("wrote database", zap.String("path", cf.out), zap.Int("segments", b.Stats().SegmentCount))
	return nil
}

func insertFrom(b *dat.Builder, path string, read func(io.Reader) ([]dat.Net, error)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	nets, err := read(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	for _, n := range nets {
		if err := b.Insert(n); err != nil {
			return fmt.Errorf("inserting record from %s: %w", path, err)
		}
	}
	return nil
}

func cityCmd(args []string, ed dat.Edition) error {
	fs := flag.NewFlagSet(ed.Name, flag.ExitOnError)
	cf := bindCommon(fs)
	locations := fs.String("locations", "", "Path to a GeoLite2-City-Locations CSV (ignored for mmcity6, whose blocks are already flat)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%s: at least one input CSV file is required", ed.Name)
	}

	cfg, err := loadConfig(cf.configPath)
	if err != nil {
		return err
	}
	if cf.logLevel != "" {
		cfg.LogLevel = cf.logLevel
	}
	if *locations == "" {
		*locations = cfg.Locations
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	isV6 := ed.Name == dat.CityV6.Name

	var locs map[string]csvsrc.Location
	if !isV6 && *locations != "" {
		lf, err := os.Open(*locations)
		if err != nil {
			return fmt.Errorf("opening locations file: %w", err)
		}
		locs, err = csvsrc.ReadLocations(lf)
		lf.Close()
		if err != nil {
			return fmt.Errorf("reading locations file: %w", err)
		}
	}

	b := dat.NewBuilder(ed, log)
	for _, path := range fs.Args() {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}

		var nets []dat.Net
		if isV6 {
			nets, err = csvsrc.ReadCityV6(f)
		} else {
			nets, err = csvsrc.ReadCityBlocks(f, locs)
		}
		f.Close()
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, n := range nets {
			if err := b.Insert(n); err != nil {
				return fmt.Errorf("inserting record from %s: %w", path, err)
			}
		}
	}

	log.Info("parsed source rows", zap.Int("rows", b.Stats().RowCount), zap.Int("nets", b.Stats().NetCount))

	if cfg.StrictSegments {
		if err := b.ValidateSegmentCount(); err != nil {
			return err
		}
	}

	if err := writeAtomic(cf.out, b.Write); err != nil {
		return err
	}
	log.Info("wrote database", zap.String("path", cf.out), zap.Int("segments", b.Stats().SegmentCount))
	return nil
}

func flatCmd(args []string) error {
	fs := flag.NewFlagSet("flat", flag.ExitOnError)
	out := fs.String("o", "", "Output flat CSV path (default: stdout)")
	locations := fs.String("locations", "", "Path to a GeoLite2-City-Locations CSV")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("flat: at least one blocks CSV file is required")
	}
	if *locations == "" {
		return fmt.Errorf("flat: -locations is required")
	}

	lf, err := os.Open(*locations)
	if err != nil {
		return fmt.Errorf("opening locations file: %w", err)
	}
	defer lf.Close()

	w := io.Writer(os.Stdout)
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", *out, err)
		}
		defer f.Close()
		w = f
	}

	var blocks []io.Reader
	for _, path := range fs.Args() {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		blocks = append(blocks, f)
	}

	bw := bufio.NewWriter(w)
	if err := csvsrc.Flatten(blocks, lf, bw); err != nil {
		return err
	}
	return bw.Flush()
}

func testCmd(args []string) error {
	fs := flag.NewFlagSet("test", flag.ExitOnError)
	editionName := fs.String("edition", "mmcountry", "Edition name to interpret both files as")
	ipsPath := fs.String("ips", "", "Path to a newline-delimited list of addresses to probe")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("test: expected exactly two .dat files to compare")
	}
	if *ipsPath == "" {
		return fmt.Errorf("test: -ips is required")
	}

	ed, ok := editionByName(*editionName)
	if !ok {
		return fmt.Errorf("test: unknown edition %q", *editionName)
	}

	aData, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("reading %s: %w", fs.Arg(0), err)
	}
	bData, err := os.ReadFile(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("reading %s: %w", fs.Arg(1), err)
	}

	ra, err := legacyreader.Open(aData, ed)
	if err != nil {
		return fmt.Errorf("opening %s: %w", fs.Arg(0), err)
	}
	rb, err := legacyreader.Open(bData, ed)
	if err != nil {
		return fmt.Errorf("opening %s: %w", fs.Arg(1), err)
	}

	ipsFile, err := os.Open(*ipsPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", *ipsPath, err)
	}
	defer ipsFile.Close()

	sc := bufio.NewScanner(ipsFile)
	mismatches := 0
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		diff, err := diffLookup(ra, rb, ed, line)
		if err != nil {
			return err
		}
		if diff != "" {
			mismatches++
			fmt.Println(diff)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", *ipsPath, err)
	}

	fmt.Printf("%d mismatches\n", mismatches)
	if mismatches > 0 {
		os.Exit(1)
	}
	return nil
}

func parseTestAddr(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("parsing address %q: %w", s, err)
	}
	return addr, nil
}

func editionByName(name string) (dat.Edition, bool) {
	for _, ed := range dat.All {
		if ed.Name == name {
			return ed, true
		}
	}
	return dat.Edition{}, false
}

func diffLookup(a, b *legacyreader.Reader, ed dat.Edition, ipText string) (string, error) {
	addr, err := parseTestAddr(ipText)
	if err != nil {
		return "", err
	}

	switch {
	case ed.IsCountry:
		ca, foundA, err := a.LookupCountry(addr)
		if err != nil {
			return "", err
		}
		cb, foundB, err := b.LookupCountry(addr)
		if err != nil {
			return "", err
		}
		if foundA != foundB || ca != cb {
			return fmt.Sprintf("%s: %q(%v) != %q(%v)", ipText, ca, foundA, cb, foundB), nil
		}
		return "", nil

	case ed.Name == dat.City.Name || ed.Name == dat.CityV6.Name:
		ra, foundA, err := a.LookupCity(addr)
		if err != nil {
			return "", err
		}
		rb, foundB, err := b.LookupCity(addr)
		if err != nil {
			return "", err
		}
		if foundA != foundB || ra != rb {
			return fmt.Sprintf("%s: %+v(%v) != %+v(%v)", ipText, ra, foundA, rb, foundB), nil
		}
		return "", nil

	default:
		ta, foundA, err := a.LookupText(addr)
		if err != nil {
			return "", err
		}
		tb, foundB, err := b.LookupText(addr)
		if err != nil {
			return "", err
		}
		if foundA != foundB || ta != tb {
			return fmt.Sprintf("%s: %q(%v) != %q(%v)", ipText, ta, foundA, tb, foundB), nil
		}
		return "", nil
	}
}

func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".geodat-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Encoding:    "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return cfg.Build()
}
