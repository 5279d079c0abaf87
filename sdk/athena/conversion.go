package athena

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/kent-id/tabconv/types"
	"github.com/kent-id/tabconv/util"
	"github.com/shopspring/decimal"
)

const (
	athenaTimestampLayout = "2006-01-02 15:04:05"
	athenaDateLayout      = "2006-01-02"
	athenaTimeLayout      = "15:04:05"
)

// for supported data types, see https://docs.aws.amazon.com/athena/latest/ug/data-types.html
var athenaSQLTypes = map[string]types.SQLType{
	"boolean":   types.SQLBit,
	"tinyint":   types.SQLTinyInt,
	"smallint":  types.SQLSmallInt,
	"int":       types.SQLInteger,
	"integer":   types.SQLInteger,
	"bigint":    types.SQLBigInt,
	"double":    types.SQLDouble,
	"float":     types.SQLReal,
	"real":      types.SQLReal,
	"decimal":   types.SQLDecimal,
	"char":      types.SQLChar,
	"varchar":   types.SQLVarChar,
	"string":    types.SQLVarChar,
	"date":      types.SQLTypeDate,
	"time":      types.SQLTypeTime,
	"timestamp": types.SQLTypeTimestamp,
	"varbinary": types.SQLVarBinary,
}

// athenaSQLType maps an athena column type name to a native SQL type code.
// Complex types such as array, map, row and json map to SQLUnknownType.
func athenaSQLType(athenaType string) types.SQLType {
	athenaType = strings.ToLower(athenaType)
	if i := strings.IndexByte(athenaType, '('); i >= 0 {
		athenaType = athenaType[:i]
	}
	if t, ok := athenaSQLTypes[athenaType]; ok {
		return t
	}
	return types.SQLUnknownType
}

func parseInt64(rowData athenatypes.Datum) (int64, error) {
	data := util.SafeString(rowData.VarCharValue)
	switch data {
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}
	return strconv.ParseInt(data, 10, 64)
}

// parseFloat64 reads decimals through shopspring/decimal; other floating types use strconv
// so that NaN and Infinity survive.
func parseFloat64(rowData athenatypes.Datum, sqlType types.SQLType) (float64, error) {
	data := util.SafeString(rowData.VarCharValue)
	if sqlType == types.SQLDecimal {
		d, err := decimal.NewFromString(data)
		if err != nil {
			return 0, err
		}
		return d.InexactFloat64(), nil
	}
	return strconv.ParseFloat(data, 64)
}

// parseTimestamp reads the calendar fields athena prints; athena timestamps carry no zone.
func parseTimestamp(rowData athenatypes.Datum, sqlType types.SQLType) (types.Timestamp, error) {
	data := util.SafeString(rowData.VarCharValue)
	layout := athenaTimestampLayout
	switch sqlType {
	case types.SQLTypeDate:
		layout = athenaDateLayout
	case types.SQLTypeTime:
		layout = athenaTimeLayout
	}
	v, err := time.Parse(layout, data)
	if err != nil {
		return types.Timestamp{}, err
	}
	return types.TimestampFromTime(v), nil
}

// parseBytes decodes athena's varbinary rendering, space separated hex octets.
func parseBytes(rowData athenatypes.Datum) ([]byte, error) {
	data := strings.ReplaceAll(util.SafeString(rowData.VarCharValue), " ", "")
	b, err := hex.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("invalid varbinary value: %w", err)
	}
	return b, nil
}

func parseBool(rowData athenatypes.Datum) (bool, error) {
	return strconv.ParseBool(util.SafeString(rowData.VarCharValue))
}
