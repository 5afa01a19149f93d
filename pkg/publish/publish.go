// Package publish copies the rendered image to its fixed location in the
// repository.
//
// Publishing is last-writer-wins: the destination is replaced outright and
// there is no locking. The new file is created from scratch so it gets the
// default mode for new files instead of whatever mode the rendered image had
// in the build sandbox.
package publish

import (
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/matzehuels/wsgraph/pkg/errors"
)

// DefaultMediaDir is the repository-relative directory for published graphs.
const DefaultMediaDir = "media"

// fileMode is the requested mode for new files; the process umask applies.
const fileMode os.FileMode = 0666

// ArtifactPath returns the repository-relative path media/<name>.svg.
func ArtifactPath(mediaDir, name, format string) string {
	if mediaDir == "" {
		mediaDir = DefaultMediaDir
	}
	return path.Join(filepath.ToSlash(mediaDir), name+"."+format)
}

// Publisher writes artifacts to a filesystem.
type Publisher struct {
	Fs afero.Fs
}

// New returns a Publisher backed by fs. A nil fs means the OS filesystem.
func New(fs afero.Fs) *Publisher {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Publisher{Fs: fs}
}

// Publish replaces dest with data, creating parent directories as needed.
//
// The bytes go to a sibling temporary file which is then renamed over dest,
// so a reader never observes a half-written artifact. Publishing identical
// bytes twice leaves dest byte-identical.
func (p *Publisher) Publish(data []byte, dest string) error {
	if len(data) == 0 {
		return errors.New(errors.ErrCodePublish, "refusing to publish an empty artifact to %s", dest)
	}

	dir := filepath.Dir(dest)
	if err := p.Fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodePublish, err, "create %s", dir)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(dest)+"."+uuid.NewString()+".tmp")
	if err := p.write(tmp, data); err != nil {
		_ = p.Fs.Remove(tmp)
		return errors.Wrap(errors.ErrCodePublish, err, "write %s", dest)
	}

	// Renaming over a read-only or oddly-moded file is fine; the mode of the
	// new inode is what ends up in the repository.
	if err := p.Fs.Rename(tmp, dest); err != nil {
		_ = p.Fs.Remove(tmp)
		return errors.Wrap(errors.ErrCodePublish, err, "replace %s", dest)
	}
	return nil
}

func (p *Publisher) write(name string, data []byte) error {
	f, err := p.Fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileMode)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
