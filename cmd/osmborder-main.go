package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/goutil/userextra"
	"github.com/jamesrr39/osmborder/borderdal"
	"github.com/jamesrr39/osmborder/borderdal/nodestore"
	"github.com/jamesrr39/osmborder/borderfilter"
	"github.com/jamesrr39/osmborder/bordergeom"
	"github.com/jamesrr39/osmborder/borderoutput"
	"github.com/joho/godotenv"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/pkg/profile"
)

const version = "0.1.0"

const (
	nodeStoreMemory = "memory"
	nodeStoreDisk   = "disk"
)

type commonFlags struct {
	verbose   *bool
	debug     *bool
	overwrite *bool
}

func addCommonFlags(cmd *kingpin.CmdClause) commonFlags {
	return commonFlags{
		verbose:   cmd.Flag("verbose", "log progress").Short('v').Bool(),
		debug:     cmd.Flag("debug", "log debug information, including why ways are skipped").Short('d').Bool(),
		overwrite: cmd.Flag("overwrite", "overwrite the output file if it exists").Short('f').Bool(),
	}
}

func (f commonFlags) newLogger() *logpkg.Logger {
	logLevel := logpkg.LogLevelWarn
	if *f.verbose {
		logLevel = logpkg.LogLevelInfo
	}
	if *f.debug {
		logLevel = logpkg.LogLevelDebug
	}
	return logpkg.NewLogger(os.Stderr, logLevel)
}

// exitCode is set by the command actions
var exitCode = borderdal.ExitCodeOK

func main() {
	// a missing .env file is fine
	_ = godotenv.Load(".env")

	app := kingpin.New("osmborder", "extracts administrative and disputed border lines from OpenStreetMap data")
	app.Version(version)

	setupExtract(app)
	setupFilter(app)

	_, err := app.Parse(os.Args[1:])
	if err != nil {
		errorx, ok := err.(errorsx.Error)
		if !ok {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			os.Exit(int(borderdal.ExitCodeCmdline))
		}

		fmt.Fprintf(os.Stderr, "%s\n%s\n", errorx.Error(), errorx.Stack())
		os.Exit(int(borderdal.ExitCodeFatal))
	}

	os.Exit(int(exitCode))
}

func createTempDir(tmpDirFlag string) (string, errorsx.Error) {
	if tmpDirFlag == "" {
		dirPath, err := ioutil.TempDir("", "osmborder")
		if err != nil {
			return "", errorsx.Wrap(err)
		}
		return dirPath, nil
	}

	tmpDir, err := userextra.ExpandUser(tmpDirFlag)
	if err != nil {
		return "", errorsx.Wrap(err)
	}

	dirPath, err := ioutil.TempDir(tmpDir, "osmborder")
	if err != nil {
		return "", errorsx.Wrap(err, "tmpDir", tmpDir)
	}
	return dirPath, nil
}

func newNodeStore(fs gofs.Fs, nodeStoreType, workDirPath string) (borderdal.NodeLocationStore, errorsx.Error) {
	switch nodeStoreType {
	case nodeStoreMemory:
		return borderdal.NewMemoryNodeLocationStore(), nil
	case nodeStoreDisk:
		store, err := nodestore.NewDiskNodeLocationStore(fs, filepath.Join(workDirPath, "nodes"), nodestore.DefaultCachedBuckets)
		if err != nil {
			return nil, errorsx.Wrap(err)
		}
		return store, nil
	default:
		return nil, errorsx.Errorf("unknown node store type: %q", nodeStoreType)
	}
}

// withTracing adds a tracer writing to traceFilePath to the context. The returned function ends the trace.
func withTracing(ctx context.Context, traceFilePath string) (context.Context, func() errorsx.Error, errorsx.Error) {
	if traceFilePath == "" {
		return ctx, func() errorsx.Error { return nil }, nil
	}

	traceFile, err := os.Create(traceFilePath)
	if err != nil {
		return nil, nil, errorsx.Wrap(err, "traceFilePath", traceFilePath)
	}

	tracer := tracing.NewTracer(traceFile)
	trace := tracing.StartTrace(tracer, fmt.Sprintf("osmborder extract: %s", time.Now().Format(time.RFC3339)))

	ctx = context.WithValue(ctx, tracing.TraceCtxKey, trace)
	ctx = context.WithValue(ctx, tracing.TracerCtxKey, tracer)

	endTrace := func() errorsx.Error {
		err := tracer.EndTrace(trace, "")
		if err != nil {
			traceFile.Close()
			return errorsx.Wrap(err)
		}

		err = traceFile.Close()
		if err != nil {
			return errorsx.Wrap(err)
		}
		return nil
	}

	return ctx, endTrace, nil
}

func setupExtract(app *kingpin.Application) {
	cmd := app.Command("extract", "extract border lines from an OSM file (.osm.pbf or .osm)")
	flags := addCommonFlags(cmd)
	filePath := cmd.Arg("osm-file", "OSM file to read").Required().String()
	outputConnString := cmd.Flag("output-file", fmt.Sprintf(
		"output. Plain paths are written as TSV; other outputs are the type, followed by %q, followed by the path or connection string. Types: %s, %s, %s",
		borderoutput.ConnectionPathSeparator,
		borderoutput.OutputTypeTSV,
		borderoutput.OutputTypePostgresql,
		borderoutput.OutputTypeParquet,
	)).Short('o').Envar("OSMBORDER_OUTPUT").Required().String()
	epsg := cmd.Flag("epsg", "EPSG code of the output geometries").Default(fmt.Sprintf("%d", bordergeom.EPSGWebMercator)).Int()
	noNeutral := cmd.Flag("no-neutral", "leave the neutral column out of TSV output").Bool()
	nodeStoreType := cmd.Flag("node-store", "where node locations are kept during the run").Default(nodeStoreMemory).Enum(nodeStoreMemory, nodeStoreDisk)
	tmpDirFlag := cmd.Flag("tmp-dir", "temp dir for the disk node store and profiles").Envar("OSMBORDER_TMP_DIR").String()
	shouldProfile := cmd.Flag("profile", "write a CPU profile to the temp dir").Bool()
	traceFilePath := cmd.Flag("trace-file", "write a trace of the passes to this file").String()

	cmd.Action(func(ctx *kingpin.ParseContext) (err error) {
		logger := flags.newLogger()
		fs := gofs.NewOsFs()

		workDirPath, err := createTempDir(*tmpDirFlag)
		if err != nil {
			return errorsx.Wrap(err)
		}
		defer os.RemoveAll(workDirPath)

		if *shouldProfile {
			defer profile.Start(profile.ProfilePath(filepath.Dir(workDirPath)), profile.CPUProfile).Stop()
		}

		startTime := time.Now()
		logger.Info("filePath: %s", *filePath)

		runCtx, endTrace, err := withTracing(context.Background(), *traceFilePath)
		if err != nil {
			return errorsx.Wrap(err)
		}

		reader, err := borderdal.NewOSMReaderForFile(runCtx, fs, *filePath)
		if err != nil {
			return errorsx.Wrap(err)
		}
		defer reader.Close()

		geometryBuilder, err := bordergeom.NewEWKBHexBuilder(*epsg)
		if err != nil {
			return errorsx.Wrap(err)
		}

		nodeStore, err := newNodeStore(fs, *nodeStoreType, workDirPath)
		if err != nil {
			return errorsx.Wrap(err)
		}
		defer nodeStore.Close()

		outputter, err := borderoutput.NewOutputter(fs, *outputConnString, borderoutput.OutputOptions{
			Overwrite:      *flags.overwrite,
			IncludeNeutral: !*noNeutral,
			SRID:           geometryBuilder.SRID(),
		})
		if err != nil {
			return errorsx.Wrap(err)
		}

		stats, err := borderdal.Extract(runCtx, logger, reader, nodeStore, geometryBuilder, outputter)
		if err != nil {
			return errorsx.Wrap(err)
		}

		err = endTrace()
		if err != nil {
			return errorsx.Wrap(err)
		}

		logger.Info("extract finished in %s", time.Since(startTime))
		fmt.Fprintf(os.Stderr, "lines output: %d, warnings: %d, errors: %d\n", stats.LinesOutput, stats.Warnings, stats.Errors)

		exitCode = stats.ExitCode()
		return nil
	})
}

func setupFilter(app *kingpin.Application) {
	cmd := app.Command("filter", "copy the boundary relations, their ways and nodes to a smaller OSM XML file")
	flags := addCommonFlags(cmd)
	filePath := cmd.Arg("osm-file", "OSM file to read").Required().String()
	outputFilePath := cmd.Flag("output-file", "OSM XML file to write").Short('o').Required().String()

	cmd.Action(func(ctx *kingpin.ParseContext) (err error) {
		logger := flags.newLogger()
		fs := gofs.NewOsFs()

		reader, err := borderdal.NewOSMReaderForFile(context.Background(), fs, *filePath)
		if err != nil {
			return errorsx.Wrap(err)
		}
		defer reader.Close()

		stats, err := borderfilter.FilterToFile(context.Background(), logger, fs, reader, *outputFilePath, *flags.overwrite)
		if err != nil {
			return errorsx.Wrap(err)
		}

		logger.Info("wrote %d relations, %d ways, %d nodes", stats.RelationsWritten, stats.WaysWritten, stats.NodesWritten)
		return nil
	})
}
