package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/gasparian/hash-matching-go/annbench"
	"github.com/gasparian/hash-matching-go/app"
	cm "github.com/gasparian/hash-matching-go/common"
	"github.com/gasparian/hash-matching-go/hash"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	errNoCatalog = errors.New("no hdf5 files found in the catalog directory")
)

func main() {
	logger := cm.GetNewLogger()
	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Fatal().Err(err).Msg("")
	}
}

func newRootCmd(logger *cm.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "hash-matching",
		Short:         "Ranks images by similarity of descriptors fingerprints",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRankCmd(logger))
	return root
}

type rankFlags struct {
	ref     string
	dir     string
	out     string
	hasher  string
	dataset string
	variant int
	top     int
	debug   bool
}

func newRankCmd(logger *cm.Logger) *cobra.Command {
	flags := rankFlags{}
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank catalog images against the reference one",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := app.ParseEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("variant") {
				config.App.Variant = flags.variant
			}
			if cmd.Flags().Changed("top") {
				config.App.TopN = flags.top
			}
			if cmd.Flags().Changed("dataset") {
				config.App.Dataset = flags.dataset
			}
			logger.SetLevel(flags.debug)
			return rank(cmd.Context(), *config, flags, logger)
		},
	}
	cmd.Flags().StringVar(&flags.ref, "ref", "", "hdf5 file with the reference image descriptors")
	cmd.Flags().StringVar(&flags.dir, "dir", "", "directory with catalog hdf5 files, one per image")
	cmd.Flags().StringVar(&flags.out, "out", "report.csv", "report file path")
	cmd.Flags().StringVar(&flags.hasher, "hasher", "", "hasher dump: loaded if exists, written after fitting otherwise")
	cmd.Flags().StringVar(&flags.dataset, "dataset", annbench.DefaultDataset, "descriptors dataset name")
	cmd.Flags().IntVar(&flags.variant, "variant", 1, "fingerprint variant: 1, 2 or 3")
	cmd.Flags().IntVar(&flags.top, "top", 10, "number of closest images to report, 0 for all")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "verbose logging")
	cmd.MarkFlagRequired("ref")
	cmd.MarkFlagRequired("dir")
	return cmd
}

func catalogFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".h5" || ext == ".hdf5" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, errors.Wrap(errNoCatalog, dir)
	}
	sort.Strings(files)
	return files, nil
}

func rank(ctx context.Context, config app.ServiceConfig, flags rankFlags, logger *cm.Logger) error {
	s, release, err := app.NewStore(config.Store)
	if err != nil {
		return err
	}
	defer release()
	if err := s.Clear(); err != nil {
		return err
	}

	matcher, err := app.NewMatcher(config, s, logger)
	if err != nil {
		return err
	}
	ref, err := annbench.ReadDescriptorsFile(flags.ref, config.App.Dataset)
	if err != nil {
		return err
	}
	if err := setReference(matcher, ref, flags.hasher, logger); err != nil {
		return err
	}

	files, err := catalogFiles(flags.dir)
	if err != nil {
		return err
	}
	candidates := make([]app.Candidate, 0, len(files))
	bar := pb.StartNew(len(files))
	for _, path := range files {
		bar.Increment()
		desc, err := annbench.ReadDescriptorsFile(path, config.App.Dataset)
		if err != nil {
			logger.Warn().Err(err).Msg("Catalog file skipped")
			continue
		}
		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		candidates = append(candidates, app.Candidate{ID: id, Descriptors: desc})
	}
	bar.Finish()

	added, err := matcher.AddCandidates(ctx, candidates)
	if err != nil {
		return err
	}
	logger.Info().Int("added", added).Int("files", len(files)).Msg("Catalog is hashed")

	all, err := matcher.Rank(0)
	if err != nil {
		return err
	}
	top := all
	if config.App.TopN > 0 && len(top) > config.App.TopN {
		top = top[:config.App.TopN]
	}
	for i, r := range top {
		logger.Info().Int("place", i+1).Str("id", r.ID).Float64("dist", r.Dist).Int("matches", r.Matches).Msg("")
	}
	precision, recall := agreement(all, len(top))
	logger.Info().
		Float64("precision", precision).
		Float64("recall", recall).
		Msg("Fingerprint ranking against descriptors matching")

	f, err := os.Create(flags.out)
	if err != nil {
		return err
	}
	defer f.Close()
	return app.WriteReport(f, top)
}

// setReference restores the hasher from the dump at path when there is one,
// otherwise fits it and saves the dump there
func setReference(matcher *app.Matcher, ref hash.Descriptors, path string, logger *cm.Logger) error {
	if len(path) == 0 {
		return matcher.SetReference(ref)
	}
	dump, err := os.ReadFile(path)
	switch {
	case err == nil:
		logger.Info().Str("path", path).Msg("Restoring hasher")
		return matcher.RestoreReference(dump, ref)
	case !os.IsNotExist(err):
		return err
	}
	if err := matcher.SetReference(ref); err != nil {
		return err
	}
	dump, err = matcher.DumpHasher()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, dump, 0644); err != nil {
		return errors.Wrap(err, "saving hasher")
	}
	logger.Info().Str("path", path).Msg("Hasher saved")
	return nil
}

// agreement compares top n by fingerprint distance with
// top n by the number of matched descriptors
func agreement(records []cm.NeighborsRecord, n int) (float64, float64) {
	if n == 0 {
		return 0, 0
	}
	prediction := make([]int, n)
	for i := range prediction {
		prediction[i] = i
	}
	byMatches := make([]int, len(records))
	for i := range byMatches {
		byMatches[i] = i
	}
	sort.SliceStable(byMatches, func(i, j int) bool {
		return records[byMatches[i]].Matches > records[byMatches[j]].Matches
	})
	groundTruth := byMatches[:n]
	sort.Ints(groundTruth)
	return annbench.PrecisionRecall(prediction, groundTruth)
}
