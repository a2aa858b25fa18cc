// Package gaps invokes the external gap-generation script and caches its
// responses. The script is an opaque function from (method, passage text,
// gap count) to a gap list; this service never reimplements the methods.
package gaps

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"cloze-study-service/internal/methods"
	"cloze-study-service/internal/models"

	"github.com/google/uuid"
)

// Runner shells out to the gap-generation script. The exchange format is a
// pair of JSON files: the script reads parameters from one and writes the
// gap list to the other.
type Runner struct {
	PythonBin  string
	ScriptPath string
	Timeout    time.Duration
}

func NewRunner(pythonBin, scriptPath string, timeout time.Duration) *Runner {
	return &Runner{
		PythonBin:  pythonBin,
		ScriptPath: scriptPath,
		Timeout:    timeout,
	}
}

type runnerInput struct {
	PassageText string `json:"passage_text"`
	NumGaps     int    `json:"num_gaps"`
	PassageID   string `json:"passage_id"`
}

// Run generates gaps for one passage. method must be canonical; the script
// itself is addressed by the legacy short code.
func (r *Runner) Run(ctx context.Context, method, passageText string, passageID, numGaps int) ([]models.Gap, error) {
	code := methods.LegacyCode(method)
	if code == "" {
		return nil, fmt.Errorf("unknown method %q", method)
	}

	inPath := filepath.Join(os.TempDir(), "gaps_in_"+uuid.NewString()+".json")
	outPath := filepath.Join(os.TempDir(), "gaps_out_"+uuid.NewString()+".json")
	defer os.Remove(inPath)
	defer os.Remove(outPath)

	input, err := json.Marshal(runnerInput{
		PassageText: passageText,
		NumGaps:     numGaps,
		PassageID:   fmt.Sprintf("%d", passageID),
	})
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(inPath, input, 0o600); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.PythonBin, r.ScriptPath, code, inPath, outPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Printf("Gap runner failed for method %s: %v (%s)", method, err, out)
		return nil, fmt.Errorf("gap generation failed: %w", err)
	}

	raw, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("gap generation produced no output: %w", err)
	}
	var result []models.Gap
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("gap generation output malformed: %w", err)
	}
	return result, nil
}
