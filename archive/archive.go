// Package archive provides container-level access to the zip archive
// backing an OOXML spreadsheet workbook: streaming member reads and a
// copy-and-substitute patch pass that replaces selected worksheet parts
// while leaving every other member byte-identical.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// ErrArchiveCorrupt is returned when a source file cannot be opened as a
// zip archive, or when a structural part the workbook format requires is
// missing from it.
var ErrArchiveCorrupt = errors.New("archive: corrupt workbook archive")

// ErrMissingSheet is returned when a requested sheet or replacement target
// does not resolve to any member actually present in the source archive.
var ErrMissingSheet = errors.New("archive: sheet not present in archive")

// Reader provides read access to the members of a workbook archive.
type Reader struct {
	zr *zip.ReadCloser // non-nil when opened by file name
	zf *zip.Reader     // always non-nil
}

// Open opens the named file as a workbook archive. The caller must call
// Close on the returned Reader when done.
func Open(name string) (*Reader, error) {
	rc, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", ErrArchiveCorrupt, name, err)
	}
	return &Reader{zr: rc, zf: &rc.Reader}, nil
}

// NewReader reads a workbook archive from an arbitrary ReaderAt.
// size must equal the total byte length of the data.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	zf, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: open reader: %v", ErrArchiveCorrupt, err)
	}
	return &Reader{zf: zf}, nil
}

// Names returns the member names in archive order.
func (r *Reader) Names() []string {
	names := make([]string, len(r.zf.File))
	for i, f := range r.zf.File {
		names[i] = f.Name
	}
	return names
}

// Has reports whether a member with the given name exists.
func (r *Reader) Has(name string) bool {
	for _, f := range r.zf.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

// OpenMember returns a streaming reader over the decompressed contents of
// the named member. The caller must close it; an abandoned reader (closed
// before end-of-stream) is valid, which is what the metadata scanner relies
// on to avoid decompressing whole worksheet parts.
func (r *Reader) OpenMember(name string) (io.ReadCloser, error) {
	for _, f := range r.zf.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("archive: open member %q: %w", name, err)
			}
			return rc, nil
		}
	}
	return nil, fmt.Errorf("%w: member %q", ErrMissingSheet, name)
}

// ReadMember reads the full contents of the named member.
func (r *Reader) ReadMember(name string) ([]byte, error) {
	rc, err := r.OpenMember(name)
	if err != nil {
		return nil, err
	}
	data, readErr := io.ReadAll(rc)
	closeErr := rc.Close()
	if readErr != nil {
		return nil, fmt.Errorf("archive: read member %q: %w", name, readErr)
	}
	// Propagate decompressor checksum errors even when the read appeared to
	// succeed (e.g. truncated deflate stream).
	if closeErr != nil {
		return nil, fmt.Errorf("archive: read member %q: %w", name, closeErr)
	}
	return data, nil
}

// Close releases the underlying file handle. It is a no-op when the Reader
// was built via NewReader.
func (r *Reader) Close() error {
	if r.zr != nil {
		return r.zr.Close()
	}
	return nil
}

// Patch copies the archive at src to dst member-by-member, substituting the
// members named in replacements with the given bytes.
//
// Untouched members are copied in their raw compressed form, so their bytes
// (including compression method and metadata) are identical to the source.
// Replaced members are written deflated. Member order follows the source
// archive. The source is never mutated; on failure the partially written
// destination file is removed.
//
// Every replacement key must name a member present in src; an unknown key
// yields ErrMissingSheet before any output is written.
func Patch(src, dst string, replacements map[string][]byte) error {
	r, err := Open(src)
	if err != nil {
		return err
	}
	defer r.Close()

	// Validate the replacement map up front, in deterministic order, so a bad
	// map never leaves a truncated destination behind.
	keys := make([]string, 0, len(replacements))
	for name := range replacements {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	for _, name := range keys {
		if !r.Has(name) {
			return fmt.Errorf("%w: replacement target %q", ErrMissingSheet, name)
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("archive: create %q: %w", dst, err)
	}
	if err := copyMembers(r.zf, out, replacements); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("archive: close %q: %w", dst, err)
	}
	return nil
}

// copyMembers performs the single-writer copy-and-substitute pass.
func copyMembers(zf *zip.Reader, out io.Writer, replacements map[string][]byte) error {
	zw := zip.NewWriter(out)
	for _, f := range zf.File {
		if repl, ok := replacements[f.Name]; ok {
			w, err := zw.CreateHeader(&zip.FileHeader{
				Name:     f.Name,
				Method:   zip.Deflate,
				Modified: f.Modified,
			})
			if err != nil {
				return fmt.Errorf("archive: write member %q: %w", f.Name, err)
			}
			if _, err := w.Write(repl); err != nil {
				return fmt.Errorf("archive: write member %q: %w", f.Name, err)
			}
			continue
		}
		if err := copyRaw(zw, f); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("archive: finalize: %w", err)
	}
	return nil
}

// copyRaw transfers one member without recompressing it, preserving the
// source's compressed bytes, method, and header metadata.
func copyRaw(zw *zip.Writer, f *zip.File) error {
	rr, err := f.OpenRaw()
	if err != nil {
		return fmt.Errorf("archive: copy member %q: %w", f.Name, err)
	}
	header := f.FileHeader
	w, err := zw.CreateRaw(&header)
	if err != nil {
		return fmt.Errorf("archive: copy member %q: %w", f.Name, err)
	}
	if _, err := io.Copy(w, rr); err != nil {
		return fmt.Errorf("archive: copy member %q: %w", f.Name, err)
	}
	return nil
}
