package athletegen

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/okian/athletebmi/internal/adapters/loader"
	"github.com/okian/athletebmi/internal/domain/athlete"
	"github.com/okian/athletebmi/internal/domain/dedupe"
	"github.com/okian/athletebmi/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestWrite(t *testing.T) {
	Convey("Given a generator config", t, func() {
		ctx := context.Background()
		cfg := Config{Rows: 200, Seed: 42, MissingRate: 0.2, DuplicateRate: 0.1}

		Convey("When writing twice with the same seed", func() {
			var a, b bytes.Buffer
			sa, err := Write(ctx, &a, cfg)
			So(err, ShouldBeNil)
			sb, err := Write(ctx, &b, cfg)
			So(err, ShouldBeNil)

			Convey("Then the output is identical", func() {
				So(a.String(), ShouldEqual, b.String())
				So(sa, ShouldResemble, sb)
			})

			Convey("Then the header and row count match", func() {
				lines := strings.Split(strings.TrimSpace(a.String()), "\n")
				So(lines[0], ShouldEqual, strings.Join(Header, ","))
				So(len(lines), ShouldEqual, 201)
				So(sa.Rows, ShouldEqual, 200)
				So(sa.Missing, ShouldBeGreaterThan, 0)
				So(sa.Duplicates, ShouldBeGreaterThan, 0)
			})

			Convey("Then the loader reads it back", func() {
				records, err := loader.NewCSVLoader().Read(ctx, &a)
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 200)

				entries, stats := athlete.Aggregate(ctx, records, dedupe.NewYearDeduper())
				So(stats.SkippedMissing, ShouldBeGreaterThanOrEqualTo, sa.Missing)
				So(stats.Duplicates, ShouldBeGreaterThan, 0)
				So(len(entries), ShouldEqual, stats.Entries)
			})
		})

		Convey("When a different seed is used", func() {
			var a, b bytes.Buffer
			_, err := Write(ctx, &a, cfg)
			So(err, ShouldBeNil)
			cfg.Seed = 7
			_, err = Write(ctx, &b, cfg)
			So(err, ShouldBeNil)

			Convey("Then the output differs", func() {
				So(a.String(), ShouldNotEqual, b.String())
			})
		})

		Convey("When rates are zero", func() {
			var buf bytes.Buffer
			stats, err := Write(ctx, &buf, Config{Rows: 50, Seed: 1, Years: []int{2000}})

			Convey("Then every row is a clean, unique athlete", func() {
				So(err, ShouldBeNil)
				So(stats.Missing, ShouldEqual, 0)
				So(stats.Duplicates, ShouldEqual, 0)
				So(buf.String(), ShouldNotContainSubstring, ",NA,NA,")
				So(buf.String(), ShouldContainSubstring, ",2000,")
			})
		})

		Convey("When the config is invalid", func() {
			_, err := Write(ctx, &bytes.Buffer{}, Config{Rows: -1})
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)

			_, err = Write(ctx, &bytes.Buffer{}, Config{Rows: 1, MissingRate: 2})
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := Write(cctx, &bytes.Buffer{}, cfg)

			Convey("Then generation stops", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestDefaultYears(t *testing.T) {
	Convey("Given the default years", t, func() {
		years := DefaultYears()

		Convey("Then they span 1896 to 2016 without cancelled editions", func() {
			So(years[0], ShouldEqual, 1896)
			So(years[len(years)-1], ShouldEqual, 2016)
			So(years, ShouldNotContain, 1916)
			So(years, ShouldNotContain, 1940)
			So(years, ShouldNotContain, 1944)
		})
	})
}
