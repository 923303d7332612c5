package xmlconfig

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/afero"

	"filament/internal/logging"
	"filament/internal/principal"
)

// Options configures a Factory.
type Options struct {
	// Fs is the filesystem holding the registry. Defaults to the OS filesystem.
	Fs afero.Fs
	// Lock guards each provider session. Defaults to FileLock on the OS
	// filesystem and to NoLock on any other Fs, whose paths do not exist on disk.
	Lock LockFunc
	// LockTimeout bounds the wait for a held lock. Zero fails at once.
	LockTimeout time.Duration
	// Logger receives commit and rollback records.
	Logger *slog.Logger
}

// Factory hands out a new Provider per logical session against one file.
// It does not cache or pool providers.
type Factory struct {
	path string
	opt  Options
}

var _ principal.AccessFactory = (*Factory)(nil)

// NewFactory checks that path names an existing regular file.
func NewFactory(path string, opt Options) (*Factory, error) {
	if path == "" {
		return nil, principal.Errorf(principal.InvalidArgument, "configuration file path is required")
	}
	if opt.Fs == nil {
		opt.Fs = afero.NewOsFs()
	}
	if opt.Lock == nil {
		opt.Lock = NoLock
		if _, onDisk := opt.Fs.(*afero.OsFs); onDisk {
			opt.Lock = FileLock
		}
	}
	opt.Logger = logging.Component(opt.Logger, "xmlconfig")
	st, err := opt.Fs.Stat(path)
	if err != nil {
		return nil, principal.Wrap(principal.AccessFailure, err, "unable to find configuration file")
	}
	if st.IsDir() {
		return nil, principal.Errorf(principal.AccessFailure, "configuration file %s is a directory", path)
	}
	return &Factory{path: path, opt: opt}, nil
}

// Path returns the configuration file path.
func (f *Factory) Path() string { return f.path }

// Open locks the file, opens it for reading and writing and loads it.
// The returned provider must be closed.
func (f *Factory) Open(ctx context.Context) (*Provider, error) {
	if f.opt.LockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opt.LockTimeout)
		defer cancel()
	}
	release, err := f.opt.Lock(ctx, f.path)
	if err != nil {
		return nil, err
	}
	file, err := f.opt.Fs.OpenFile(f.path, os.O_RDWR, 0)
	if err != nil {
		_ = release()
		return nil, principal.Wrap(principal.AccessFailure, err, "opening configuration file")
	}
	return newProvider(f.path, file, release, f.opt.Logger)
}

// GetInstance implements principal.AccessFactory.
func (f *Factory) GetInstance(ctx context.Context) (principal.AccessProvider, error) {
	p, err := f.Open(ctx)
	if err != nil {
		return nil, err
	}
	return p, nil
}
