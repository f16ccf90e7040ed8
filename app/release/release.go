// Package release assembles the processed data of every category into a flat
// release tree ready for publishing.
package release

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Categories lists the data categories included in a release, in the order
// they are assembled.
var Categories = []string{"dictionaries", "freqlists", "phrasebooks", "wordlists"}

// Build wipes outDir and fills it with every file found under each category's
// processed_data directory inside dataDir. A category without processed data
// is skipped. Returns the number of files collected.
func Build(dataDir, outDir string) (int, error) {
	if err := clean(outDir); err != nil {
		return 0, err
	}

	collected := 0
	for _, category := range Categories {
		target := filepath.Join(outDir, category)
		if err := os.MkdirAll(target, 0755); err != nil {
			return collected, errors.Wrap(err, "can't create category directory")
		}

		source := filepath.Join(dataDir, category, "processed_data")
		if _, err := os.Stat(source); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			if err := copyFile(path, filepath.Join(target, d.Name())); err != nil {
				return err
			}
			log.Info().Str("file", path).Str("target", target).Msg("collected")
			collected++
			return nil
		})
		if err != nil {
			return collected, errors.Wrapf(err, "can't collect %v", category)
		}
	}
	log.Info().Int("total", collected).Str("dir", outDir).Msg("release data is ready")
	return collected, nil
}

func clean(outDir string) error {
	if _, err := os.Stat(outDir); err == nil {
		if err := os.RemoveAll(outDir); err != nil {
			return errors.Wrap(err, "can't remove old release files")
		}
		log.Info().Msg("removed old release files")
	}
	return errors.Wrap(os.MkdirAll(outDir, 0755), "can't create release directory")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
