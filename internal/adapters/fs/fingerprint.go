package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Fingerprinter)(nil)

// Fingerprinter computes unit fingerprints and artifact digests.
//
// A unit fingerprint covers every significant file under the project
// directory: small files contribute their content hash, files at or above
// the threshold contribute an mtime+size signature. Hashing multi-gigabyte
// asset packs on every run is what the signature shortcut avoids; a
// threshold of 0 disables it.
type Fingerprinter struct {
	walker    *Walker
	threshold int64
	ignores   []string
}

// NewFingerprinter creates a Fingerprinter.
func NewFingerprinter(walker *Walker, threshold int64, ignores []string) *Fingerprinter {
	return &Fingerprinter{
		walker:    walker,
		threshold: threshold,
		ignores:   ignores,
	}
}

// UnitFingerprint computes the fingerprint of the project directory.
// The relative file path participates in the digest so renames invalidate.
func (f *Fingerprinter) UnitFingerprint(dir string) (string, error) {
	digest := xxhash.New()

	for path, walkErr := range f.walker.WalkFiles(dir, f.ignores) {
		if walkErr != nil {
			// A partial walk must never produce a fingerprint: unseen files
			// would stop participating and their changes would go unnoticed.
			return "", zerr.With(zerr.Wrap(walkErr, "failed to walk project directory"), "dir", dir)
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		_, _ = digest.WriteString(filepath.ToSlash(rel))
		_, _ = digest.Write([]byte{0})

		if err := f.hashEntry(path, digest); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", digest.Sum64()), nil
}

// hashEntry writes one file's signature into the digest.
func (f *Fingerprinter) hashEntry(path string, digest *xxhash.Digest) error {
	info, err := os.Stat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}

	if f.threshold > 0 && info.Size() >= f.threshold {
		// Large file: signature only.
		if err := binary.Write(digest, binary.LittleEndian, info.ModTime().UnixNano()); err != nil {
			return zerr.Wrap(err, "failed to write signature to digest")
		}
		if err := binary.Write(digest, binary.LittleEndian, info.Size()); err != nil {
			return zerr.Wrap(err, "failed to write signature to digest")
		}
		return nil
	}

	sum, err := f.hashFile(path)
	if err != nil {
		return err
	}
	if err := binary.Write(digest, binary.LittleEndian, sum); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}

// hashFile computes the XXHash of a file's content.
func (f *Fingerprinter) hashFile(path string) (uint64, error) {
	file, err := os.Open(path) //nolint:gosec // Path comes from our own walk
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer file.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// OutputDigest hashes the exported artifact tree of the unit and returns
// the digest with the total artifact size. Artifacts are always content
// hashed; the run just produced them, so they are warm in the page cache.
func (f *Fingerprinter) OutputDigest(unit *domain.Unit) (string, int64, error) {
	if _, err := os.Stat(unit.OutputDir); err != nil {
		return "", 0, zerr.With(zerr.Wrap(domain.ErrArtifactMissing, "output directory missing"), "path", unit.OutputDir)
	}

	digest := xxhash.New()
	var total int64
	var files int

	for path, walkErr := range f.walker.WalkFiles(unit.OutputDir, nil) {
		if walkErr != nil {
			return "", 0, zerr.With(zerr.Wrap(walkErr, "failed to walk output directory"), "dir", unit.OutputDir)
		}

		rel, err := filepath.Rel(unit.OutputDir, path)
		if err != nil {
			rel = path
		}
		_, _ = digest.WriteString(filepath.ToSlash(rel))
		_, _ = digest.Write([]byte{0})

		sum, err := f.hashFile(path)
		if err != nil {
			return "", 0, err
		}
		if err := binary.Write(digest, binary.LittleEndian, sum); err != nil {
			return "", 0, zerr.Wrap(err, "failed to write hash to digest")
		}

		info, err := os.Stat(path)
		if err != nil {
			return "", 0, zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", path)
		}
		total += info.Size()
		files++
	}

	if files == 0 {
		return "", 0, zerr.With(zerr.Wrap(domain.ErrArtifactMissing, "no files exported"), "path", unit.OutputDir)
	}

	return fmt.Sprintf("%016x", digest.Sum64()), total, nil
}
