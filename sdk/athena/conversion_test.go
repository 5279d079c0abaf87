package athena

import (
	"math"

	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/kent-id/tabconv/types"
	"github.com/kent-id/tabconv/util"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Conversion", func() {
	Context("Column types", func() {
		DescribeTable("athena type names",
			func(athenaType string, expected types.SQLType) {
				Expect(athenaSQLType(athenaType)).To(Equal(expected))
			},
			Entry("boolean", "boolean", types.SQLBit),
			Entry("integer", "integer", types.SQLInteger),
			Entry("bigint", "bigint", types.SQLBigInt),
			Entry("double", "double", types.SQLDouble),
			Entry("decimal with precision", "decimal(38,9)", types.SQLDecimal),
			Entry("varchar with length", "varchar(64)", types.SQLVarChar),
			Entry("upper case", "TIMESTAMP", types.SQLTypeTimestamp),
			Entry("date", "date", types.SQLTypeDate),
			Entry("varbinary", "varbinary", types.SQLVarBinary),
			Entry("array", "array", types.SQLUnknownType),
			Entry("map", "map", types.SQLUnknownType),
		)
	})

	Context("Integer", func() {
		It("should return value if valid", func() {
			rowData := athenatypes.Datum{VarCharValue: util.RefString("-2147483648")}
			result, err := parseInt64(rowData)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal(int64(-2147483648)))
		})

		It("should read booleans as 0 and 1", func() {
			result, err := parseInt64(athenatypes.Datum{VarCharValue: util.RefString("true")})
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal(int64(1)))
			result, err = parseInt64(athenatypes.Datum{VarCharValue: util.RefString("false")})
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal(int64(0)))
		})

		It("should return error if not valid", func() {
			rowData := athenatypes.Datum{VarCharValue: util.RefString("-----2147483648")}
			_, err := parseInt64(rowData)
			Expect(err).To(HaveOccurred())
		})

		// anything above int64 range will overflow
		It("should return error if overflow", func() {
			rowData := athenatypes.Datum{VarCharValue: util.RefString("9223372036854775807123213122")}
			_, err := parseInt64(rowData)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("Double", func() {
		It("should parse decimals", func() {
			rowData := athenatypes.Datum{VarCharValue: util.RefString("1234.500000000")}
			result, err := parseFloat64(rowData, types.SQLDecimal)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal(1234.5))
		})

		It("should keep NaN and Infinity for doubles", func() {
			result, err := parseFloat64(athenatypes.Datum{VarCharValue: util.RefString("NaN")}, types.SQLDouble)
			Expect(err).ToNot(HaveOccurred())
			Expect(math.IsNaN(result)).To(BeTrue())
			result, err = parseFloat64(athenatypes.Datum{VarCharValue: util.RefString("Infinity")}, types.SQLDouble)
			Expect(err).ToNot(HaveOccurred())
			Expect(math.IsInf(result, 1)).To(BeTrue())
		})

		It("should return error if not valid", func() {
			_, err := parseFloat64(athenatypes.Datum{VarCharValue: util.RefString("1.2.3")}, types.SQLDecimal)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("Timestamp", func() {
		It("should return value if valid", func() {
			rowData := athenatypes.Datum{VarCharValue: util.RefString("2012-10-31 08:30:10.123")}
			result, err := parseTimestamp(rowData, types.SQLTypeTimestamp)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal(types.Timestamp{Year: 2012, Month: 10, Day: 31, Hour: 8, Minute: 30, Second: 10, Fraction: 123000000}))
		})

		It("should return error if not valid", func() {
			rowData := athenatypes.Datum{VarCharValue: util.RefString("2012-10-31T08:30:10Z")}
			_, err := parseTimestamp(rowData, types.SQLTypeTimestamp)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("Date", func() {
		It("should return value if valid", func() {
			rowData := athenatypes.Datum{VarCharValue: util.RefString("2012-10-31")}
			result, err := parseTimestamp(rowData, types.SQLTypeDate)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal(types.Timestamp{Year: 2012, Month: 10, Day: 31}))
		})

		It("should return error if not valid", func() {
			rowData := athenatypes.Datum{VarCharValue: util.RefString("2012-10-31 08:30:10")}
			_, err := parseTimestamp(rowData, types.SQLTypeDate)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("Varbinary", func() {
		It("should decode space separated hex", func() {
			rowData := athenatypes.Datum{VarCharValue: util.RefString("de ad be ef")}
			result, err := parseBytes(rowData)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal([]byte{0xde, 0xad, 0xbe, 0xef}))
		})

		It("should return error if not valid", func() {
			_, err := parseBytes(athenatypes.Datum{VarCharValue: util.RefString("zz")})
			Expect(err).To(HaveOccurred())
		})
	})

	Context("Boolean", func() {
		It("should return true on TRUE bool value", func() {
			result, err := parseBool(athenatypes.Datum{VarCharValue: util.RefString("true")})
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(BeTrue())
		})

		It("should return error on invalid bool value", func() {
			_, err := parseBool(athenatypes.Datum{VarCharValue: util.RefString("some-invalid-value")})
			Expect(err).To(HaveOccurred())
		})
	})
})
