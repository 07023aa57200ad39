package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/rs/zerolog"

	"github.com/PedroHContessoto/pelanca/internal/engine"
	"github.com/PedroHContessoto/pelanca/internal/storage"
	"github.com/PedroHContessoto/pelanca/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	dataDir    = flag.String("data", "", "database directory (default per-user config dir)")
	noStore    = flag.Bool("no-store", false, "run without the persistent option store")
	debug      = flag.Bool("debug", false, "verbose logging")
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	eng := engine.New(log)

	var store *storage.Store
	if !*noStore {
		dir := *dataDir
		if dir == "" {
			var err error
			dir, err = storage.DefaultDir()
			if err != nil {
				log.Warn().Err(err).Msg("no config dir, options will not persist")
			}
		}
		if dir != "" {
			var err error
			store, err = storage.Open(dir, log)
			if err != nil {
				log.Warn().Err(err).Str("dir", dir).Msg("option store unavailable")
			} else {
				defer store.Close()
			}
		}
	}

	if store != nil {
		opts, err := store.LoadOptions()
		if err != nil {
			log.Warn().Err(err).Msg("could not load saved options")
		} else {
			if err := eng.SetHashSize(opts.HashMB); err != nil {
				log.Warn().Err(err).Msg("could not apply saved hash size")
			}
			eng.SetThreads(opts.Threads)
			log.Debug().Int("hash_mb", opts.HashMB).Int("threads", opts.Threads).
				Msg("saved options applied")
		}
		if stats, err := store.LoadStats(); err == nil && stats.Searches > 0 {
			log.Debug().Uint64("searches", stats.Searches).Uint64("nodes", stats.Nodes).
				Msg("lifetime statistics")
		}
	}

	handler := uci.New(eng, os.Stdout, log)
	if store != nil {
		handler.OnSearchDone = func(r engine.Result) {
			if err := store.RecordSearch(r.Nodes, r.Elapsed); err != nil {
				log.Warn().Err(err).Msg("could not record search stats")
			}
			saved := storage.Options{HashMB: eng.HashSizeMB(), Threads: eng.Threads()}
			if err := store.SaveOptions(saved); err != nil {
				log.Warn().Err(err).Msg("could not save options")
			}
		}
	}

	if err := handler.Run(os.Stdin); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
