package main

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TsubasaBE/go-sheetpatch"
	"github.com/TsubasaBE/go-sheetpatch/synth"
	"github.com/TsubasaBE/go-sheetpatch/weekcal"
	"github.com/TsubasaBE/go-sheetpatch/workbook"
)

var (
	genProfilePath string
	genSeed        int64
	genSourceRows  int
	genStart       string
)

var generateCmd = &cobra.Command{
	Use:   "generate TEMPLATE [OUTPUT]",
	Short: "Synthesize a fake copy of a source-of-truth workbook",
	Long: `Read a template workbook's sheet structure (headers and extents only),
generate fake dictionary and source-of-truth data of the same shape, and
write a copy of the archive with those four sheets replaced. All other
archive members — styles, relationships, shared strings, workbook
metadata — are copied byte-for-byte.

Output defaults to the template name with a "_fake" suffix. Generation is
deterministic for a fixed --seed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile(genProfilePath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			p.Seed = genSeed
		}
		if cmd.Flags().Changed("source-rows") {
			p.Rows.Source = genSourceRows
		}
		if cmd.Flags().Changed("start") {
			p.Start = genStart
		}

		src := args[0]
		dst := fakeName(src)
		if len(args) == 2 {
			dst = args[1]
		}
		if err := generate(src, dst, p); err != nil {
			return err
		}
		log.Info().Str("output", dst).Msg("workbook generated")
		return nil
	},
}

func generate(src, dst string, p profile) error {
	wb, err := sheetpatch.Open(src)
	if err != nil {
		return err
	}

	week, err := wb.Descriptor(p.Sheets.Week)
	if err != nil {
		return closeAnd(wb, err)
	}
	brand, err := wb.Descriptor(p.Sheets.Brand)
	if err != nil {
		return closeAnd(wb, err)
	}
	category, err := wb.Descriptor(p.Sheets.Category)
	if err != nil {
		return closeAnd(wb, err)
	}
	source, err := wb.Descriptor(p.Sheets.Source)
	if err != nil {
		return closeAnd(wb, err)
	}
	// The patch pass reopens the archive itself.
	if err := wb.Close(); err != nil {
		return err
	}

	start := synth.DefaultWeekStart
	if p.Start != "" {
		start, err = weekcal.ParseWeekEnding(p.Start)
		if err != nil {
			return err
		}
	}

	// Fake pools sized like the template's own dictionaries.
	rng := rand.New(rand.NewSource(p.Seed))
	weeks := synth.MakeWeekRows(dataRows(week), start)
	brands := synth.MakeBrandRows(rng, dataRows(brand))
	cats := synth.MakeCategoryRows(rng, dataRows(category), brands)

	sourceRows := p.Rows.Source
	if sourceRows <= 0 {
		sourceRows = dataRows(source)
	}
	log.Debug().
		Int("weeks", len(weeks)).
		Int("brands", len(brands)).
		Int("categories", len(cats)).
		Int("sourceRows", sourceRows).
		Msg("pools sized from template")

	if len(brands) == 0 || len(cats) == 0 || len(weeks) == 0 {
		return fmt.Errorf("generate: template dictionaries are empty (weeks=%d brands=%d categories=%d)",
			len(weeks), len(brands), len(cats))
	}

	return sheetpatch.Patch(src, dst, map[string]sheetpatch.Replacement{
		week.Name: {
			Header:  week.Header,
			Numeric: synth.WeekNumericFlags,
			Rows:    synth.WeekSheetRows(weeks),
		},
		brand.Name: {
			Header:  brand.Header,
			Numeric: synth.BrandNumericFlags,
			Rows:    synth.BrandSheetRows(brands),
		},
		category.Name: {
			Header:  category.Header,
			Numeric: synth.CategoryNumericFlags,
			Rows:    synth.CategorySheetRows(cats),
		},
		source.Name: {
			Header:   source.Header,
			Numeric:  synth.SourceNumericFlags,
			RowCount: sourceRows,
			Generate: func(int) []string {
				return synth.SourceRow(rng, brands, cats, weeks)
			},
		},
	})
}

// dataRows converts a sheet extent to its data row count (header excluded).
func dataRows(d *workbook.Descriptor) int {
	if d.MaxRow <= 1 {
		return 0
	}
	return d.MaxRow - 1
}

// fakeName derives the default output path: "book.xlsx" → "book_fake.xlsx".
func fakeName(src string) string {
	ext := filepath.Ext(src)
	return strings.TrimSuffix(src, ext) + "_fake" + ext
}

func closeAnd(wb *workbook.Workbook, err error) error {
	_ = wb.Close()
	return err
}

func init() {
	generateCmd.Flags().StringVar(&genProfilePath, "profile", "", "YAML generation profile")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 42, "random seed for reproducible output")
	generateCmd.Flags().IntVar(&genSourceRows, "source-rows", 0, "data rows for the source sheet (0 = match template)")
	generateCmd.Flags().StringVar(&genStart, "start", "", `first week-ending label (e.g. "Week Ending 01-05-25")`)
	rootCmd.AddCommand(generateCmd)
}
