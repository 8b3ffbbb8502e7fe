package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	mongorepo "github.com/yoockh/roastcv/internal/repositories/mongo"
	"go.mongodb.org/mongo-driver/bson"
)

type Failure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type Report struct {
	Scanned  int       `json:"scanned"`
	Migrated int       `json:"migrated"`
	Failed   int       `json:"failed"`
	DryRun   bool      `json:"dryRun"`
	Failures []Failure `json:"failures,omitempty"`
}

// Migrator rewrites every legacy document it finds. A failing document is
// recorded in the report and the run continues.
type Migrator struct {
	Repo   mongorepo.LegacyRepository
	Log    logrus.FieldLogger
	DryRun bool
	Now    func() time.Time
	NewID  func(time.Time) string
}

func (m *Migrator) Run(ctx context.Context) (Report, error) {
	rep := Report{DryRun: m.DryRun}
	now := m.Now
	if now == nil {
		now = time.Now
	}
	log := m.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	err := m.Repo.EachLegacy(ctx, func(raw bson.Raw) error {
		rep.Scanned++
		id, ok := raw.Lookup("_id").ObjectIDOK()
		if !ok {
			rep.fail("", fmt.Errorf("document has no ObjectID _id"))
			return nil
		}
		entry := log.WithField("_id", id.Hex())

		rec, err := Rebuild(raw, now(), m.NewID)
		if err != nil {
			rep.fail(id.Hex(), err)
			entry.WithError(err).Warn("legacy document skipped")
			return nil
		}
		if bad := rec.Validate(); len(bad) > 0 {
			err := fmt.Errorf("invalid fields: %v", bad)
			rep.fail(id.Hex(), err)
			entry.WithError(err).Warn("legacy document skipped")
			return nil
		}

		if m.DryRun {
			entry.WithField("resume_id", rec.ResumeID).Info("would migrate")
			rep.Migrated++
			return nil
		}
		if err := m.Repo.Replace(ctx, id, rec); err != nil {
			rep.fail(id.Hex(), err)
			entry.WithError(err).Error("legacy document replace failed")
			return nil
		}
		rep.Migrated++
		return ctx.Err()
	})
	return rep, err
}

func (r *Report) fail(id string, err error) {
	r.Failed++
	r.Failures = append(r.Failures, Failure{ID: id, Reason: err.Error()})
}
