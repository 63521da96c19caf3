package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/txdig/internal/model"
)

// Dump file settings.
const (
	// SnapshotFileName is the dig mode dump file name.
	SnapshotFileName = "trxids.log"

	// addressFileSuffix is appended to the address for address mode dumps.
	addressFileSuffix = ".log"

	dirPerm  = 0o750
	filePerm = 0o600
)

// SaveAddressReport writes report to {dir}/{address}.log and returns the
// file path. The directory is created if absent; an existing file is
// overwritten.
func SaveAddressReport(dir string, report *model.AddressReport) (string, error) {
	name := filepath.Base(report.Address)
	if name == "." || name == string(filepath.Separator) || name != report.Address {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, report.Address)
	}
	return saveDocument(dir, name+addressFileSuffix, report)
}

// SaveSnapshot writes the tracker snapshot to {dir}/trxids.log and
// returns the file path.
func SaveSnapshot(dir string, snapshot model.TrackerSnapshot) (string, error) {
	return saveDocument(dir, SnapshotFileName, snapshot)
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (model.TrackerSnapshot, error) {
	var snapshot model.TrackerSnapshot
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return snapshot, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return snapshot, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return snapshot, nil
}

// LoadAddressReport reads a report written by SaveAddressReport.
func LoadAddressReport(path string) (*model.AddressReport, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read address report: %w", err)
	}
	report := model.NewAddressReport("")
	if err := json.Unmarshal(data, report); err != nil {
		return nil, fmt.Errorf("failed to parse address report: %w", err)
	}
	return report, nil
}

// saveDocument writes v as 4-space indented JSON in one piece.
func saveDocument(dir, name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", name, err)
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
