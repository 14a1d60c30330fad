// zpaqsize measures the information content of files: it runs each input
// through ZPAQ compression with output discarded and reports the compressed
// byte count, optionally next to a zstd baseline.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	zpaq "github.com/zpaqio/go-zpaq"
)

type result struct {
	path       string
	original   uint64
	compressed uint64
	baseline   uint64
}

func main() {
	var (
		methodFlag                string
		threadsFlag, parallelFlag int
		baselineFlag, verboseFlag bool
		archiveFlag, progressFlag bool
	)

	flag.StringVar(&methodFlag, "m", "1", "compression method (level digit or config string)")
	flag.IntVar(&threadsFlag, "t", 1, "native threads per file (block-parallel)")
	flag.IntVar(&parallelFlag, "j", runtime.GOMAXPROCS(0), "files measured concurrently")
	flag.BoolVar(&baselineFlag, "z", false, "also report a zstd baseline size")
	flag.BoolVar(&archiveFlag, "a", false, "measure full archive pipeline size (dedup + journaling) instead of raw stream")
	flag.BoolVar(&progressFlag, "p", true, "show progress")
	flag.BoolVar(&verboseFlag, "v", false, "be verbose")

	flag.Parse()

	var err error
	var logger *zap.Logger
	if verboseFlag {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal("failed to initialize logger", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	files := flag.Args()
	if len(files) == 0 {
		logger.Fatal("no input files given")
	}
	if parallelFlag < 1 {
		parallelFlag = 1
	}
	if archiveFlag && parallelFlag > 1 {
		// The archive tool keeps process-wide state while running.
		logger.Info("archive mode is single-file; forcing -j 1")
		parallelFlag = 1
	}

	var bar *progressbar.ProgressBar
	if progressFlag {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("measuring"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)
	}

	var mu sync.Mutex
	results := make([]result, 0, len(files))

	var g errgroup.Group
	g.SetLimit(parallelFlag)
	for _, path := range files {
		g.Go(func() error {
			r, err := measure(path, methodFlag, threadsFlag, archiveFlag, baselineFlag)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
			if bar != nil {
				_ = bar.Add(1)
			}
			logger.Debug("measured", zap.String("path", path),
				zap.Uint64("original", r.original), zap.Uint64("compressed", r.compressed))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal("measurement failed", zap.Error(err))
	}
	if bar != nil {
		_ = bar.Finish()
	}

	sort.Slice(results, func(i, j int) bool { return results[i].path < results[j].path })
	for _, r := range results {
		if baselineFlag {
			fmt.Printf("%12d %12d %12d  %s\n", r.original, r.compressed, r.baseline, r.path)
		} else {
			fmt.Printf("%12d %12d  %s\n", r.original, r.compressed, r.path)
		}
	}
}

func measure(path, method string, threads int, archive, baseline bool) (result, error) {
	r := result{path: path}

	if archive {
		st, err := os.Stat(path)
		if err != nil {
			return r, err
		}
		r.original = uint64(st.Size())
		r.compressed, err = zpaq.AddArchiveSize(path, method, threads)
		if err != nil {
			return r, err
		}
		if baseline {
			data, err := os.ReadFile(path)
			if err != nil {
				return r, err
			}
			if r.baseline, err = zstdSize(data); err != nil {
				return r, err
			}
		}
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return r, err
	}
	r.original = uint64(len(data))

	if threads > 1 {
		r.compressed, err = zpaq.CompressSizeParallel(bytes.NewReader(data), method, threads)
	} else {
		r.compressed, err = zpaq.CompressSizeBytes(data, method)
	}
	if err != nil {
		return r, err
	}

	if baseline {
		if r.baseline, err = zstdSize(data); err != nil {
			return r, err
		}
	}
	return r, nil
}

func zstdSize(data []byte) (uint64, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return 0, err
	}
	defer enc.Close()
	return uint64(len(enc.EncodeAll(data, nil))), nil
}
