// Package iowrite implements atomic file replacement for jct's save
// path: write to a sibling temp file, fsync, then rename over the
// destination, so a crash mid-write never leaves a truncated document.
package iowrite

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/themactep/jct"
)

// ErrExists is returned by CreateExclusive when the target already exists.
var ErrExists = errors.New("iowrite: target already exists")

// ReplaceAtomic writes data to path atomically. On the OS filesystem
// this goes through renameio, which writes a sibling temp file in the
// same directory and renames it into place so readers never observe a
// partial write. On in-memory or other afero backends it goes through
// replaceViaCopy instead: a temp file on fs beside path, renamed over
// it, with a stream-copy fallback when the rename fails.
func ReplaceAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	if osfs, ok := fs.(*afero.OsFs); ok {
		_ = osfs
		t, err := renameio.TempFile(filepath.Dir(path), path)
		if err != nil {
			return jct.Wrap("iowrite.replace", jct.KindIOFailure, err)
		}
		defer t.Cleanup()
		if err := t.Chmod(perm); err != nil {
			return jct.Wrap("iowrite.replace", jct.KindIOFailure, err)
		}
		if _, err := t.Write(data); err != nil {
			return jct.Wrap("iowrite.replace", jct.KindIOFailure, err)
		}
		if err := t.CloseAtomicallyReplace(); err != nil {
			return jct.Wrap("iowrite.replace", jct.KindIOFailure, err)
		}
		return nil
	}
	return replaceViaCopy(fs, path, data, perm)
}

// replaceViaCopy writes to a temp file on fs and renames it over path,
// falling back to stream-copy-then-unlink if Rename fails because the
// temp file and the destination are not on the same device.
func replaceViaCopy(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	tmp := path + ".jct-tmp"
	f, err := fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return jct.Wrap("iowrite.replace", jct.KindIOFailure, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = fs.Remove(tmp)
		return jct.Wrap("iowrite.replace", jct.KindIOFailure, err)
	}
	if err := f.Close(); err != nil {
		_ = fs.Remove(tmp)
		return jct.Wrap("iowrite.replace", jct.KindIOFailure, err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		if copyErr := crossDeviceCopy(fs, tmp, path, perm); copyErr != nil {
			_ = fs.Remove(tmp)
			return jct.Wrap("iowrite.replace", jct.KindIOFailure, copyErr)
		}
		_ = fs.Remove(tmp)
	}
	return nil
}

// crossDeviceCopy handles EXDEV-style rename failures by streaming the
// temp file's contents onto the destination directly.
func crossDeviceCopy(fs afero.Fs, tmp, dest string, perm os.FileMode) error {
	src, err := fs.Open(tmp)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// CreateExclusive writes data to path only if it does not already
// exist, the way the create verb refuses to clobber an existing file.
func CreateExclusive(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	if _, err := fs.Stat(path); err == nil {
		return jct.New("iowrite.create", jct.KindBadInput, "target already exists: "+path, ErrExists)
	}
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if os.IsExist(err) {
			return jct.New("iowrite.create", jct.KindBadInput, "target already exists: "+path, ErrExists)
		}
		return jct.Wrap("iowrite.create", jct.KindIOFailure, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = fs.Remove(path)
		return jct.Wrap("iowrite.create", jct.KindIOFailure, err)
	}
	if err := f.Close(); err != nil {
		return jct.Wrap("iowrite.create", jct.KindIOFailure, err)
	}
	return nil
}
