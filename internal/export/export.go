package export

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shellsmith/internal/config"
	"shellsmith/internal/errors"
	"shellsmith/internal/shell"
)

// Input contains parameters for the Export operation.
type Input struct {
	Path       string // optional, default: ~/.shellsmith/exports/<body name>.stl
	Body       shell.Body
	Resolution float64 // optional, default: config export resolution
}

// Output contains the result of the Export operation.
type Output struct {
	Path       string `json:"path"`
	Triangles  int    `json:"triangles"`
	SizeBytes  int64  `json:"size_bytes"`
	ExportedAt int64  `json:"exported_at"`
}

// Export meshes one finished half and writes it as a binary STL file.
// The file is written to a temp name and renamed into place, so a failed
// export never clobbers an existing file.
func Export(ctx context.Context, cfg *config.Config, input Input) (*Output, error) {
	if input.Body.Solid == nil {
		return nil, errors.NewExport("no body to export")
	}

	res := input.Resolution
	if res <= 0 {
		if cfg == nil {
			cfg = config.DefaultConfig()
		}
		res = cfg.ExportResolution()
	}

	exportPath := input.Path
	if exportPath == "" {
		dir, err := DefaultExportsDir()
		if err != nil {
			return nil, err
		}
		exportPath = filepath.Join(dir, SanitizeForFilename(input.Body.Name)+".stl")
	}

	// All paths are validated, defaults included: a body name could smuggle
	// separators into the default path.
	if err := ValidatePath(exportPath, cfg); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	tris, err := mesh(ctx, input.Body.Solid, input.Body.Bounds, res)
	if err != nil {
		return nil, err
	}

	// Write to a temp file first, then atomic rename.
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if err := writeSTL(file, tris); err != nil {
		return nil, errors.NewExport(fmt.Sprintf("failed to write STL: %v", err))
	}
	if err := file.Close(); err != nil {
		file = nil
		return nil, errors.NewExport(fmt.Sprintf("failed to finalize STL: %v", err))
	}
	file = nil

	if err := os.Rename(tempPath, exportPath); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to move export into place: %w", err))
	}
	success = true

	info, err := os.Stat(exportPath)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return &Output{
		Path:       exportPath,
		Triangles:  len(tris),
		SizeBytes:  info.Size(),
		ExportedAt: time.Now().Unix(),
	}, nil
}
