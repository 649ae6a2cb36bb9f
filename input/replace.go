package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrFinished is returned when a Replacement is used after Commit or Abort.
var ErrFinished = errors.New("replacement already finished")

// Replacement stages new contents for a file next to it and swaps them in
// on Commit. Output is compressed the same way Open decompresses input.
type Replacement struct {
	path string
	temp *os.File
	enc  io.WriteCloser
	out  io.Writer
	done bool
}

// Replace starts replacing the file at path. The original is untouched until
// Commit succeeds.
func Replace(path string) (*Replacement, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	temp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, err
	}

	rep := &Replacement{path: path, temp: temp, out: temp}

	if err := temp.Chmod(info.Mode().Perm()); err != nil {
		_ = rep.Abort()

		return nil, err
	}

	if codec, ok := CompressionFor(path); ok {
		rep.enc, err = codec.writer(temp)
		if err != nil {
			_ = rep.Abort()

			return nil, fmt.Errorf("creating %s stream for %s: %w", codec.Name, path, err)
		}

		rep.out = rep.enc
	}

	return rep, nil
}

func (r *Replacement) Write(p []byte) (int, error) {
	if r.done {
		return 0, ErrFinished
	}

	return r.out.Write(p)
}

// Commit flushes the staged contents and renames them over the original.
func (r *Replacement) Commit() error {
	if r.done {
		return ErrFinished
	}

	r.done = true

	if r.enc != nil {
		if err := r.enc.Close(); err != nil {
			return errors.Join(err, r.cleanup())
		}
	}

	if err := r.temp.Close(); err != nil {
		return errors.Join(err, os.Remove(r.temp.Name()))
	}

	if err := os.Rename(r.temp.Name(), r.path); err != nil {
		return errors.Join(err, os.Remove(r.temp.Name()))
	}

	return nil
}

// Abort discards the staged contents. It is a no-op after Commit.
func (r *Replacement) Abort() error {
	if r.done {
		return nil
	}

	r.done = true

	if r.enc != nil {
		_ = r.enc.Close()
	}

	return r.cleanup()
}

func (r *Replacement) cleanup() error {
	return errors.Join(r.temp.Close(), os.Remove(r.temp.Name()))
}
