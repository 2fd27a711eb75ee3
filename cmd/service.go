package main

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/census-lookup/internal/census"
	"github.com/sells-group/census-lookup/internal/dataset"
	"github.com/sells-group/census-lookup/internal/lookup"
	"github.com/sells-group/census-lookup/internal/match"
	"github.com/sells-group/census-lookup/internal/tiger"
)

// initManager builds the dataset manager from config.
func initManager() (*dataset.Manager, error) {
	if err := cfg.Validate("lookup"); err != nil {
		return nil, err
	}

	downloader := tiger.NewDownloader(tiger.DownloaderOptions{
		Timeout:      time.Duration(cfg.Download.TimeoutSecs) * time.Second,
		RequestsPerS: cfg.Download.RequestsPerSec,
		FTPTimeout:   time.Duration(cfg.Download.FTPTimeoutSecs) * time.Second,
	})

	return dataset.NewManager(dataset.ManagerOptions{
		DataDir: cfg.Data.Dir,
		Year:    cfg.Data.Year,
		Scoring: match.Scoring{
			Exact:              cfg.Match.ExactScore,
			TypeRelaxed:        cfg.Match.TypeRelaxedScore,
			DirectionalRelaxed: cfg.Match.DirectionalRelaxedScore,
			OutOfRangePenalty:  cfg.Match.OutOfRangePenalty,
		},
		Downloader:     downloader,
		CountyFetchers: cfg.Download.CountyFetchers,
	})
}

// initService builds the lookup service and its manager.
func initService() (*lookup.Service, *dataset.Manager, error) {
	mgr, err := initManager()
	if err != nil {
		return nil, nil, err
	}
	return lookup.NewService(mgr, cfg.Batch.Workers), mgr, nil
}

// resolveVariables merges --variables codes and a --group name, consulting a
// --group-file when given. Defaults apply downstream when both are empty.
func resolveVariables(variables []string, group, groupFile string) ([]string, error) {
	var gf *census.GroupFile
	if groupFile != "" {
		loaded, err := census.LoadGroupFile(groupFile)
		if err != nil {
			return nil, err
		}
		gf = loaded
	}

	out := append([]string(nil), variables...)
	if group != "" {
		pl94, acs, err := gf.Resolve(group)
		if err != nil {
			return nil, err
		}
		out = append(out, pl94...)
		out = append(out, acs...)
	}

	for _, v := range out {
		if _, ok := census.Variables[v]; ok {
			continue
		}
		if _, ok := census.ACSVariables[v]; ok {
			continue
		}
		return nil, eris.Errorf("unknown variable %q", v)
	}
	return out, nil
}
