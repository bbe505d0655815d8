// Package trace exports simulation samples as CSV and terminal plots
package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/lixenwraith/toybox/physics"
)

// RecordHeader is the column row of a vine trace
var RecordHeader = []string{"X", "Y", "X Velocity", "Y Velocity", "Velocity magnitude"}

// FrameHeader is the column row of a cloth frame dump, one row per particle per step
var FrameHeader = []string{"step", "particle", "x", "y", "vx", "vy", "fixed"}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteRecords writes the header then one row per record
func WriteRecords(w io.Writer, records []physics.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RecordHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{ftoa(r.X), ftoa(r.Y), ftoa(r.VX), ftoa(r.VY), ftoa(r.Speed)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRecordsFile replaces path with the trace
func WriteRecordsFile(path string, records []physics.Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trace: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteRecords(f, records)
}

// WriteFrames dumps every particle of every snapshot
func WriteFrames(w io.Writer, frames []physics.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FrameHeader); err != nil {
		return err
	}
	for _, fr := range frames {
		step := strconv.FormatUint(fr.Step, 10)
		for i, p := range fr.Particles {
			row := []string{
				step,
				strconv.Itoa(i),
				ftoa(p.Position.X), ftoa(p.Position.Y),
				ftoa(p.Velocity.X), ftoa(p.Velocity.Y),
				strconv.FormatBool(p.Fixed),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
