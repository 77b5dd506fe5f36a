package vangogh

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/vangogh/vg"
)

const scanWorkers = 10

func isPNG(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".png")
}

func vgFilename(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + vg.Extension
}

// upToDate reports whether dst exists and is no older than src
func upToDate(src, dst string) (bool, error) {
	si, err := os.Stat(src)
	if err != nil {
		return false, err
	}

	di, err := os.Stat(dst)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	return !di.ModTime().Before(si.ModTime()), nil
}

func (v *VanGogh) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() || !isPNG(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (v *VanGogh) imageWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			dst := vgFilename(file)

			ok, err := upToDate(file, dst)
			if err != nil {
				errc <- err
				return
			}
			if ok {
				v.logger.Printf("Skipping \"%s\", \"%s\" is up to date\n", file, dst)
				continue
			}

			if err := v.EncodeFile(file, dst); err != nil {
				errc <- err
				return
			}

			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()
	return errc, nil
}

// waitForPipeline returns the first error from any stage. The first error
// cancels the remaining stages, which are drained before returning.
func waitForPipeline(cancel context.CancelFunc, stages ...<-chan error) error {
	var first error
	for err := range mergeErrors(stages...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(stages ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(stages))
	for _, stage := range stages {
		wg.Add(1)
		go func(errc <-chan error) {
			defer wg.Done()
			for err := range errc {
				out <- err
			}
		}(stage)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks the directory tree at path and converts every PNG image found
// into a VanGogh image alongside it. Images whose VanGogh counterpart is
// already up to date are skipped.
func (v *VanGogh) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := v.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < scanWorkers; i++ {
		errc, err := v.imageWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}
