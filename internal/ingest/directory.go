package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/medrec-tools/lab-extract/constants"
)

// Scanner walks directories for report files.
type Scanner struct {
	AllowedExts map[string]struct{} // lowercased sans '.'; nil -> constants.AllowedExtensions
	SkipHidden  bool
	logger      *slog.Logger
}

func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{SkipHidden: true, logger: logger}
}

func (s *Scanner) allowed(ext string) bool {
	ext = constants.NormalizeExt(ext)
	allow := s.AllowedExts
	if allow == nil {
		allow = constants.AllowedExtensions
	}
	_, ok := allow[ext]
	return ok
}

// ScanDirectory walks root, filters to allowed extensions, hashes each
// match, and flags repeated content. Unreadable entries become failed
// rows; the walk itself keeps going.
func (s *Scanner) ScanDirectory(ctx context.Context, root string) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []FileResult
	var stats DirStats
	seen := map[string]string{} // content hash -> first path

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if s.SkipHidden && path != root && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !s.allowed(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		hexHash, herr := hashFile(path)
		if herr != nil {
			s.logger.Warn("failed to hash file", "file", path, "error", herr)
			results = append(results, FileResult{Path: path, Err: herr.Error()})
			stats.Failed++
			return nil
		}

		first, dup := seen[hexHash]
		if dup {
			stats.Deduplicated++
			s.logger.Info("duplicate report content", "file", path, "first_seen", first)
		} else {
			seen[hexHash] = path
		}
		results = append(results, FileResult{Path: path, HashHex: hexHash, Deduplicated: dup})
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk %s: %w", root, err)
	}
	return results, stats, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
