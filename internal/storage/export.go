package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/qwell/internal/shooting"
)

type ExportData struct {
	*Run
	Steps      int                 `json:"steps"`
	Trajectory shooting.Trajectory `json:"trajectory"`
}

// ExportJSON writes run and its trajectory as one indented document.
func ExportJSON(w io.Writer, run *Run) error {
	data := ExportData{
		Run:        run,
		Steps:      len(run.Trajectory),
		Trajectory: run.Trajectory,
	}
	if data.Trajectory == nil {
		data.Trajectory = shooting.Trajectory{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
