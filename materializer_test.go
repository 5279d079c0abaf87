package tabconv

import (
	"context"
	"math"
	"time"

	"github.com/kent-id/tabconv/types"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Result materializer", func() {
	var ctx context.Context
	var cfg Config
	BeforeEach(func() {
		ctx = context.Background()
		cfg = newConfig([]Option{WithLocation(time.UTC)})
	})

	Context("unbounded fetch", func() {
		It("should grow past the initial capacity and shrink to the row count", func() {
			cursor := newFakeCursor([]string{"n"}, []types.SQLType{types.SQLInteger}, intRows(250))
			table, err := materialize(ctx, cursor, -1, cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(table.NumRows()).To(Equal(250))
			ids := table.Columns[0].Data.(IntVector)
			Expect(cap(ids)).To(Equal(250))
			for i, v := range ids {
				Expect(v).To(Equal(int64(i)))
			}
		})

		It("should grow exactly at a full capacity boundary", func() {
			cursor := newFakeCursor([]string{"n"}, []types.SQLType{types.SQLInteger}, intRows(DefaultInitialCapacity))
			table, err := materialize(ctx, cursor, -1, cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(table.NumRows()).To(Equal(DefaultInitialCapacity))
		})

		It("should return an empty table with named columns for an empty result", func() {
			cursor := newFakeCursor([]string{"a", "b"}, []types.SQLType{types.SQLInteger, types.SQLVarChar}, nil)
			table, err := materialize(ctx, cursor, -1, cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(table.NumRows()).To(BeZero())
			Expect(table.Names()).To(Equal([]string{"a", "b"}))
		})
	})

	Context("bounded fetch", func() {
		It("should stop at maxRows without reading further", func() {
			cursor := newFakeCursor([]string{"n"}, []types.SQLType{types.SQLInteger}, intRows(250))
			table, err := materialize(ctx, cursor, 10, cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(table.NumRows()).To(Equal(10))
			Expect(table.Columns[0].Data).To(Equal(IntVector{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))
			Expect(cursor.nexts).To(Equal(10))
		})

		It("should shrink when the result is smaller than maxRows", func() {
			cursor := newFakeCursor([]string{"n"}, []types.SQLType{types.SQLInteger}, intRows(3))
			table, err := materialize(ctx, cursor, 10, cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(table.Columns[0].Data).To(Equal(IntVector{0, 1, 2}))
		})

		It("should read nothing for maxRows 0", func() {
			cursor := newFakeCursor([]string{"n"}, []types.SQLType{types.SQLInteger}, intRows(3))
			table, err := materialize(ctx, cursor, 0, cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(table.NumRows()).To(BeZero())
			Expect(cursor.nexts).To(BeZero())
		})
	})

	Context("cell conversion", func() {
		It("should write the null representation of every type", func() {
			cursor := newFakeCursor(
				[]string{"i", "d", "s", "day", "at", "raw"},
				[]types.SQLType{types.SQLBigInt, types.SQLDouble, types.SQLVarChar, types.SQLTypeDate, types.SQLTypeTimestamp, types.SQLVarBinary},
				[][]interface{}{
					{int64(7), math.NaN(), "x", types.Timestamp{Year: 2020, Month: 1, Day: 1}, types.Timestamp{Year: 2020, Month: 1, Day: 1, Fraction: 500000000}, []byte("ab")},
					{nil, nil, nil, nil, nil, nil},
				},
			)
			table, err := materialize(ctx, cursor, -1, cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(table.NumRows()).To(Equal(2))

			Expect(table.Columns[0].Data).To(Equal(IntVector{7, NullInt}))

			doubles := table.Columns[1].Data.(DoubleVector)
			Expect(math.IsNaN(doubles[0])).To(BeTrue())
			Expect(IsNullDouble(doubles[0])).To(BeFalse())
			Expect(IsNullDouble(doubles[1])).To(BeTrue())

			strs := table.Columns[2].Data.(StringVector)
			Expect(strs.Values[0]).To(Equal("x"))
			Expect(strs.Null).To(Equal([]bool{false, true}))

			days := table.Columns[3].Data.(DoubleVector)
			Expect(days[0]).To(BeNumerically("~", 18262, 1e-9))
			Expect(IsNullDouble(days[1])).To(BeTrue())

			times := table.Columns[4].Data.(DoubleVector)
			Expect(times[0]).To(BeNumerically("~", 1577836800.5, 1e-6))
			Expect(IsNullDouble(times[1])).To(BeTrue())

			Expect(table.Columns[5].Data).To(Equal(RawVector{[]byte("ab"), nil}))
		})

		It("should tag date and date-time columns only", func() {
			cursor := newFakeCursor(
				[]string{"i", "day", "at"},
				[]types.SQLType{types.SQLInteger, types.SQLDate, types.SQLTimestamp},
				nil,
			)
			table, err := materialize(ctx, cursor, -1, cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(table.Columns[0].Class).To(Equal(ClassNone))
			Expect(table.Columns[1].Class).To(Equal(ClassDate))
			Expect(table.Columns[2].Class).To(Equal(ClassDateTime))
		})

		It("should re-check nulls after reading a string", func() {
			cursor := newFakeCursor([]string{"s"}, []types.SQLType{types.SQLWLongVarChar}, [][]interface{}{{"a"}, {nil}})
			cursor.lateNull = map[int]bool{0: true}
			table, err := materialize(ctx, cursor, -1, cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(table.Columns[0].Data.(StringVector).Null).To(Equal([]bool{false, true}))
		})

		It("should read unknown types as strings and attach a warning", func() {
			cursor := newFakeCursor([]string{"id"}, []types.SQLType{types.SQLGUID}, [][]interface{}{{"0b6e"}})
			table, err := materialize(ctx, cursor, -1, cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(table.Columns[0].Data.(StringVector).Values).To(Equal([]string{"0b6e"}))
			Expect(table.Warnings).To(HaveLen(1))
			Expect(table.Warnings[0].Column).To(Equal("id"))
		})
	})

	Context("errors", func() {
		It("should not return a partial table on cursor failure", func() {
			cursor := newFakeCursor([]string{"n"}, []types.SQLType{types.SQLInteger}, intRows(50))
			cursor.errAt = 20
			table, err := materialize(ctx, cursor, -1, cfg)
			Expect(err).To(HaveOccurred())
			Expect(table).To(BeNil())
		})

		It("should fail on a value the cursor cannot convert", func() {
			cursor := newFakeCursor([]string{"n"}, []types.SQLType{types.SQLInteger}, [][]interface{}{{"not a number"}})
			_, err := materialize(ctx, cursor, -1, cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("row 0, column 0 (n)"))
		})

		It("should stop on a cancelled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			cursor := newFakeCursor([]string{"n"}, []types.SQLType{types.SQLInteger}, intRows(5))
			_, err := materialize(cctx, cursor, -1, cfg)
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})
