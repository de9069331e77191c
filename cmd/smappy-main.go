package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/httpextra"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/smappy/choropleth"
	"github.com/jamesrr39/smappy/fonts"
	"github.com/jamesrr39/smappy/mapconfig"
	"github.com/jamesrr39/smappy/mapdal"
	"github.com/jamesrr39/smappy/maprenderer"
	"github.com/jamesrr39/smappy/rendersink"
	"github.com/jamesrr39/smappy/webservices"
	"github.com/pkg/profile"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	DEFAULT_PORT     = 9000
	DEFAULT_BASE_DIR = "~/.local/share/github.com/jamesrr39/smappy/"
)

var (
	logger  *logpkg.Logger
	verbose *bool
)

func main() {
	verbose = kingpin.Flag("v", "verbose logging").Bool()

	setupRender()
	setupClassify()
	setupServe()

	kingpin.Parse()
}

// runAction sets up the logger and the fonts, and then runs the command.
// Errors are returned with their stack trace, for kingpin to print.
func runAction(run func() errorsx.Error) error {
	logLevel := logpkg.LogLevelInfo
	if *verbose {
		logLevel = logpkg.LogLevelDebug
	}
	logger = logpkg.NewLogger(os.Stderr, logLevel)

	err := fonts.Initialize()
	if err == nil {
		err = run()
	}
	if err != nil {
		return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
	}
	return nil
}

func registerFontsDir(fs gofs.Fs, fontsDir string) errorsx.Error {
	if fontsDir == "" {
		return nil
	}

	names, err := fonts.RegisterFontDir(fs, fontsDir)
	if err != nil {
		return errorsx.Wrap(err)
	}

	logger.Info("registered %d fonts from %q: %s", len(names), fontsDir, strings.Join(names, ", "))
	return nil
}

func setupRender() {
	cmd := kingpin.Command("render", "render a YAML map description to a PNG or PDF file")
	descriptionPath := cmd.Arg("map", "path to the map description (YAML)").Required().String()
	outPath := cmd.Arg("out", "path to write the map to. The format's extension is added if missing").Required().String()
	formatName := cmd.Flag("format", "output format (png or pdf)").Default(string(rendersink.FormatPNG)).Enum(string(rendersink.FormatPNG), string(rendersink.FormatPDF))
	supersample := cmd.Flag("supersample", "antialiasing factor for raster output").Default(strconv.Itoa(rendersink.DefaultSupersample)).Int()
	fontsDir := cmd.Flag("fonts-dir", "directory of extra .ttf fonts to register").String()
	tracePath := cmd.Flag("trace", "write a trace of the render to this file").String()
	shouldProfile := cmd.Flag("profile", "profile the render (CPU)").Bool()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		return runAction(func() errorsx.Error {
			if *shouldProfile {
				defer profile.Start(profile.CPUProfile).Stop()
			}

			fs := gofs.NewOsFs()

			err := registerFontsDir(fs, *fontsDir)
			if err != nil {
				return err
			}

			format, err := rendersink.ParseFormat(*formatName)
			if err != nil {
				return err
			}

			m, err := mapconfig.LoadMap(fs, *descriptionPath)
			if err != nil {
				return err
			}

			renderCtx := context.Background()
			if *tracePath != "" {
				var endTrace func() errorsx.Error
				renderCtx, endTrace, err = startTrace(renderCtx, fs, *tracePath, *descriptionPath)
				if err != nil {
					return err
				}
				defer func() {
					traceErr := endTrace()
					if traceErr != nil {
						logger.Error("couldn't write trace: %s", traceErr.Error())
					}
				}()
			}

			renderer := maprenderer.NewMapRenderer(logger, fs, mapdal.NewFileFeatureSource(fs), maprenderer.Options{Supersample: *supersample})

			startTime := time.Now()
			writtenPath, err := renderer.Render(renderCtx, m, format, *outPath)
			if err != nil {
				return err
			}

			logger.Info("wrote %q in %s", writtenPath, time.Since(startTime))
			return nil
		})
	})
}

// startTrace puts a tracer writing to tracePath on the context. The returned function ends the trace and closes the file.
func startTrace(ctx context.Context, fs gofs.Fs, tracePath, traceName string) (context.Context, func() errorsx.Error, errorsx.Error) {
	traceFile, err := fs.Create(tracePath)
	if err != nil {
		return nil, nil, errorsx.Wrap(err, "tracePath", tracePath)
	}

	tracer := tracing.NewTracer(traceFile)
	trace := tracing.StartTrace(tracer, traceName)

	ctx = context.WithValue(ctx, tracing.TraceCtxKey, trace)
	ctx = context.WithValue(ctx, tracing.TracerCtxKey, tracer)

	endTrace := func() errorsx.Error {
		defer traceFile.Close()

		err := tracer.EndTrace(trace, "")
		if err != nil {
			return errorsx.Wrap(err, "tracePath", tracePath)
		}

		err = traceFile.Close()
		if err != nil {
			return errorsx.Wrap(err, "tracePath", tracePath)
		}
		return nil
	}

	return ctx, endTrace, nil
}

func setupClassify() {
	cmd := kingpin.Command("classify", "classify values into choropleth bins, and print the legend")
	values := cmd.Arg("values", `values to classify. "-" is a region without a value`).Required().Strings()
	levels := cmd.Flag("levels", "number of bins").Default(strconv.Itoa(choropleth.DefaultLevels)).Int()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		return runAction(func() errorsx.Error {
			var items []choropleth.Item
			for i, valueStr := range *values {
				item := choropleth.Item{IDProperty: "index", IDValue: i}
				if valueStr != "-" {
					value, err := strconv.ParseFloat(valueStr, 64)
					if err != nil {
						return errorsx.Wrap(err, "value", valueStr)
					}
					item.Value = &value
				}
				items = append(items, item)
			}

			options := choropleth.DefaultOptions()
			options.Levels = *levels

			result, err := choropleth.Classify(items, options)
			if err != nil {
				return err
			}

			for _, entry := range result.LegendEntries {
				fmt.Printf("%s\t%s\n", entry.Color.Hex(), entry.Label)
			}

			fmt.Println()
			for _, group := range result.StyleGroups {
				for _, member := range group.Members {
					fmt.Printf("%s\t%s\n", group.Color.Hex(), (*values)[member.IDValue.(int)])
				}
			}

			return nil
		})
	})
}

var addrHelp = fmt.Sprintf(
	`address to serve on. Ex: ':%d' listen on port %d to traffic from anywhere. 'localhost:%d' listen on port %d to traffic from localhost`,
	DEFAULT_PORT, DEFAULT_PORT, DEFAULT_PORT, DEFAULT_PORT,
)

func setupServe() {
	cmd := kingpin.Command("serve", "serve the render webservice")
	addr := cmd.Flag("addr", addrHelp).Default(fmt.Sprintf(":%d", DEFAULT_PORT)).String()
	baseDir := cmd.Flag("data-dir", "directory holding the data, fonts, traces and temp directories").Default(DEFAULT_BASE_DIR).String()
	shouldTrace := cmd.Flag("trace", "trace requests, into the traces directory").Bool()
	shouldProfile := cmd.Flag("profile", "profile the request performance").Bool()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		return runAction(func() errorsx.Error {
			fs := gofs.NewOsFs()

			pathsConfig, err := mapdal.NewPathsConfig(*baseDir)
			if err != nil {
				return err
			}

			err = pathsConfig.EnsurePaths(fs)
			if err != nil {
				return err
			}

			err = registerFontsDir(fs, pathsConfig.FontsDir)
			if err != nil {
				return err
			}

			router, stopProfiling, err := createServer(fs, pathsConfig, *shouldTrace, *shouldProfile)
			if err != nil {
				return err
			}
			defer stopProfiling()

			server := httpextra.NewServerWithTimeouts()
			server.Addr = *addr
			server.Handler = router

			logger.Info("about to start serving on %q. Data dir: %q", *addr, pathsConfig.DataDir)

			listenErr := server.ListenAndServe()
			if listenErr != nil {
				return errorsx.Wrap(listenErr)
			}
			return nil
		})
	})
}

// createServer builds the API router. With profiling on, one CPU profile covers the whole process
// (pkg/profile can't run more than one at a time), written to the traces dir when the returned func is called.
func createServer(fs gofs.Fs, pathsConfig *mapdal.PathsConfig, shouldTrace, shouldProfile bool) (chi.Router, func(), errorsx.Error) {
	renderer := maprenderer.NewMapRenderer(logger, fs, mapdal.NewFileFeatureSource(fs), maprenderer.DefaultOptions())

	router := chi.NewRouter()
	router.Use(middleware.DefaultLogger)

	if shouldTrace {
		traceFilePath := filepath.Join(pathsConfig.TraceDir, fmt.Sprintf("trace_%s.pbf", time.Now().Format("2006-01-02__03_04_05")))
		logger.Info("tracing at %q", traceFilePath)

		traceFile, err := fs.Create(traceFilePath)
		if err != nil {
			return nil, nil, errorsx.Wrap(err)
		}

		router.Use(tracing.Middleware(tracing.NewTracer(traceFile)))
	}

	router.Route("/api/", func(r chi.Router) {
		r.Use(httpextra.CorsAllowAnythingMiddleware())
		r.Mount("/info", webservices.NewInfoService(logger))
		r.Mount("/render", webservices.NewRenderService(logger, fs, pathsConfig, renderer))
	})

	stopProfiling := func() {}
	if shouldProfile {
		logger.Info("profiling into %q", pathsConfig.TraceDir)
		stopProfiling = profile.Start(profile.ProfilePath(pathsConfig.TraceDir)).Stop
	}

	return router, stopProfiling, nil
}
