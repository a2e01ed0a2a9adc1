package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"portfolio/internal/domain/asset"
)

// SweepReport lists the orphaned files found per subfolder.
type SweepReport struct {
	Orphans map[string][]string
	Removed int
}

// SweepOrphans removes files under the asset root that no record
// references. With dryRun set it only reports them. Files from an upload
// whose record save failed end up here.
func (a *App) SweepOrphans(ctx context.Context, dryRun bool) (*SweepReport, error) {
	refs, err := a.Catalog.References(ctx)
	if err != nil {
		return nil, err
	}

	report := &SweepReport{Orphans: map[string][]string{}}
	for _, sub := range asset.Subfolders {
		names, err := a.Assets.List(ctx, sub)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if refs[sub][name] {
				continue
			}
			report.Orphans[sub] = append(report.Orphans[sub], name)
			entry := a.Log.WithFields(logrus.Fields{"subfolder": sub, "name": name, "dry_run": dryRun})
			if dryRun {
				entry.Info("orphaned asset")
				continue
			}
			if err := a.Assets.Remove(ctx, name, sub); err != nil {
				entry.WithError(err).Warn("orphaned asset not removed")
				continue
			}
			report.Removed++
			entry.Info("orphaned asset removed")
		}
	}
	return report, nil
}
