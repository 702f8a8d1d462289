// Package experiment drives an analysis run as an ordered sequence of
// named phases, with a per-session working directory, a master log file
// and metadata recording.
package experiment

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tensio-x/tensio/pkg/metadata"
)

// Phase is one unit of the analysis provided by the experimenter.
type Phase interface {
	// Name returns the phase name used for logging and metadata.
	Name() string
	// Run executes the phase.
	Run(log *logrus.Logger) error
}

// Session identifies one experiment run.
type Session struct {
	ID      string
	Name    string
	Started time.Time
}

// Experiment runs phases in order and records their outcome.
type Experiment struct {
	Session Session
	Log     *logrus.Logger

	phases           []Phase
	metadata         metadata.Metadata
	workingDirectory string
	logFile          *os.File
}

// NewExperiment prepares a run: it creates a session working directory
// under baseDir, opens the master log and records the session metadata.
// md may be nil when nothing should be persisted.
func NewExperiment(name string, phases []Phase, baseDir string, level logrus.Level, md metadata.Metadata) (*Experiment, error) {
	if len(phases) == 0 {
		return nil, errors.New("experiment requires at least one phase")
	}
	session := Session{
		ID:      uuid.New().String(),
		Name:    name,
		Started: time.Now(),
	}

	workingDirectory := filepath.Join(baseDir, name, session.ID)
	if err := os.MkdirAll(workingDirectory, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating experiment directory %s failed", workingDirectory)
	}
	logFile, err := os.Create(filepath.Join(workingDirectory, "Master.log"))
	if err != nil {
		return nil, errors.Wrap(err, "creating master log failed")
	}

	log := logrus.New()
	log.SetLevel(level)
	log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	log.Infof("Starting experiment %q with session %s", name, session.ID)

	e := &Experiment{
		Session:          session,
		Log:              log,
		phases:           phases,
		metadata:         md,
		workingDirectory: workingDirectory,
	}
	e.logFile = logFile

	if md != nil {
		err := md.RecordMap(map[string]string{
			"session": session.ID,
			"name":    name,
			"started": session.Started.Format(time.RFC3339),
		}, metadata.TypeEnviron)
		if err != nil {
			return nil, errors.Wrap(err, "recording session metadata failed")
		}
	}
	return e, nil
}

// WorkingDirectory returns the session directory holding the master log.
func (e *Experiment) WorkingDirectory() string {
	return e.workingDirectory
}

// Run executes the phases in order. The first failing phase aborts the
// run; its error is wrapped with the phase name so the caller can tell
// which stage of the analysis broke.
func (e *Experiment) Run() error {
	for i, phase := range e.phases {
		e.Log.Infof("Phase %d/%d: %s", i+1, len(e.phases), phase.Name())
		started := time.Now()
		if err := phase.Run(e.Log); err != nil {
			return errors.Wrapf(err, "phase %q failed", phase.Name())
		}
		elapsed := time.Since(started)
		e.Log.Infof("Phase %q finished in %s", phase.Name(), elapsed)
		if e.metadata != nil {
			if err := e.metadata.Record(phase.Name(), fmt.Sprintf("%d", elapsed.Milliseconds()), metadata.TypePhases); err != nil {
				return errors.Wrapf(err, "recording duration of phase %q failed", phase.Name())
			}
		}
	}
	return nil
}

// Finalize closes the master log file.
func (e *Experiment) Finalize() {
	e.Log.SetOutput(os.Stdout)
	e.logFile.Close()
}
