package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eastwood-fallfest/festmap/internal/config"
	"github.com/eastwood-fallfest/festmap/internal/dataset"
	"github.com/eastwood-fallfest/festmap/internal/model"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the dataset or a stored snapshot as JSON or YAML",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().String("dataset", "", "dataset file to read (default: built-in)")
	exportCmd.Flags().String("format", string(dataset.FormatJSON), "output format, json or yaml")
	exportCmd.Flags().StringP("out", "o", "", "output file (default: stdout)")
	exportCmd.Flags().String("snapshot", "", "export the named snapshot from storage instead")
}

func runExport(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("dataset")
	formatName, _ := flags.GetString("format")
	out, _ := flags.GetString("out")
	snapshot, _ := flags.GetString("snapshot")

	format := dataset.Format(formatName)
	if format != dataset.FormatJSON && format != dataset.FormatYAML {
		return fmt.Errorf("%w: %q", dataset.ErrUnknownFormat, formatName)
	}

	ds, err := loadDataset(path)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	if snapshot != "" {
		ds, err = exportSnapshot(snapshot, ds)
		if err != nil {
			return err
		}
	}

	var w io.Writer = cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}
	return dataset.Encode(w, ds, format)
}

// exportSnapshot replaces the entity lists of ds with the named snapshot's.
// The base point stays the dataset's.
func exportSnapshot(name string, ds dataset.Dataset) (dataset.Dataset, error) {
	base, err := resolveBase(config.GetMapConfig(), ds)
	if err != nil {
		return dataset.Dataset{}, err
	}
	backend, err := initStorage(config.GetStorageConfig(), model.FestivalInfo{
		Name:    viper.GetString("festival.name"),
		BaseLat: base.Lat(),
		BaseLng: base.Lng(),
	}, zerolog.Nop())
	if err != nil {
		return dataset.Dataset{}, err
	}
	defer backend.Close()

	snap, err := backend.LoadSnapshot(name)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("loading snapshot %q: %w", name, err)
	}
	ds.Vendors = snap.Vendors
	ds.Infrastructure = snap.Infrastructure
	return ds, nil
}
