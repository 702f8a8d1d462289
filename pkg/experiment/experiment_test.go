package experiment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/mock"

	"github.com/tensio-x/tensio/pkg/metadata"
)

type mockedMetadata struct {
	mock.Mock
}

func (m *mockedMetadata) Record(key, value, kind string) error {
	args := m.Called(key, value, kind)
	return args.Error(0)
}

func (m *mockedMetadata) RecordMap(md map[string]string, kind string) error {
	args := m.Called(md, kind)
	return args.Error(0)
}

func (m *mockedMetadata) GetByKind(kind string) (map[string]string, error) {
	args := m.Called(kind)
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *mockedMetadata) Clear() error {
	args := m.Called()
	return args.Error(0)
}

type countingPhase struct {
	name string
	runs int
	err  error
}

func (p *countingPhase) Name() string { return p.name }

func (p *countingPhase) Run(log *logrus.Logger) error {
	p.runs++
	return p.err
}

func TestExperiment(t *testing.T) {
	Convey("While running an experiment", t, func() {
		baseDir := t.TempDir()

		Convey("Phases run once each, in order, and the master log is written", func() {
			first := &countingPhase{name: "first"}
			second := &countingPhase{name: "second"}

			exp, err := NewExperiment("test-experiment", []Phase{first, second}, baseDir, logrus.ErrorLevel, nil)
			So(err, ShouldBeNil)

			So(exp.Run(), ShouldBeNil)
			exp.Finalize()

			So(first.runs, ShouldEqual, 1)
			So(second.runs, ShouldEqual, 1)

			logPath := filepath.Join(exp.WorkingDirectory(), "Master.log")
			_, err = os.Stat(logPath)
			So(err, ShouldBeNil)
			So(exp.WorkingDirectory(), ShouldStartWith, filepath.Join(baseDir, "test-experiment"))
		})

		Convey("A failing phase aborts the run and names itself", func() {
			broken := &countingPhase{name: "sampling", err: errors.New("chain diverged")}
			later := &countingPhase{name: "decision"}

			exp, err := NewExperiment("test-experiment", []Phase{broken, later}, baseDir, logrus.ErrorLevel, nil)
			So(err, ShouldBeNil)
			defer exp.Finalize()

			err = exp.Run()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, `phase "sampling" failed`)
			So(later.runs, ShouldEqual, 0)
		})

		Convey("Session metadata and phase durations are recorded", func() {
			md := new(mockedMetadata)
			md.On("RecordMap", mock.Anything, metadata.TypeEnviron).Return(nil).Once()
			md.On("Record", "only", mock.Anything, metadata.TypePhases).Return(nil).Once()

			exp, err := NewExperiment("test-experiment", []Phase{&countingPhase{name: "only"}}, baseDir, logrus.ErrorLevel, md)
			So(err, ShouldBeNil)
			defer exp.Finalize()

			So(exp.Run(), ShouldBeNil)
			So(md.AssertExpectations(t), ShouldBeTrue)
		})

		Convey("A failing metadata backend fails the run", func() {
			md := new(mockedMetadata)
			md.On("RecordMap", mock.Anything, metadata.TypeEnviron).Return(nil)
			md.On("Record", mock.Anything, mock.Anything, metadata.TypePhases).Return(errors.New("db gone"))

			exp, err := NewExperiment("test-experiment", []Phase{&countingPhase{name: "only"}}, baseDir, logrus.ErrorLevel, md)
			So(err, ShouldBeNil)
			defer exp.Finalize()

			err = exp.Run()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "recording duration")
		})

		Convey("An experiment without phases is rejected", func() {
			_, err := NewExperiment("test-experiment", nil, baseDir, logrus.ErrorLevel, nil)
			So(err, ShouldNotBeNil)
		})
	})
}
