package grpcapi

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/anvil-platform/moneta/internal/amount"
)

const (
	fieldAmountType     = "amountType"
	fieldAmountTypes    = "amountTypes"
	fieldContext        = "context"
	fieldMaximalContext = "maximalContext"
	fieldPrecision      = "precision"
	fieldMaxScale       = "maxScale"
	fieldFlavor         = "flavor"
	fieldRoundingMode   = "roundingMode"
)

func contextToMap(c amount.Context) map[string]any {
	m := map[string]any{
		fieldPrecision: float64(c.Precision),
		fieldMaxScale:  float64(c.MaxScale),
		fieldFlavor:    c.Flavor.String(),
	}
	if c.AmountType != "" {
		m[fieldAmountType] = string(c.AmountType)
	}
	if c.RoundingMode != "" {
		m[fieldRoundingMode] = string(c.RoundingMode)
	}
	return m
}

// EncodeContext converts c to its wire form.
func EncodeContext(c amount.Context) (*structpb.Struct, error) {
	return structpb.NewStruct(contextToMap(c))
}

// DecodeContext parses the wire form of a context. Omitted fields take the
// unbounded defaults: precision 0, maxScale -1, flavor UNDEFINED.
func DecodeContext(s *structpb.Struct) (amount.Context, error) {
	c := amount.Context{Precision: amount.UnboundedPrecision, MaxScale: amount.UnboundedScale}
	if s == nil {
		return c, nil
	}
	fields := s.GetFields()

	var err error
	if v, ok := fields[fieldAmountType]; ok {
		t, err := stringField(fieldAmountType, v)
		if err != nil {
			return amount.Context{}, err
		}
		c.AmountType = amount.Type(t)
	}
	if v, ok := fields[fieldPrecision]; ok {
		if c.Precision, err = intField(fieldPrecision, v, 0); err != nil {
			return amount.Context{}, err
		}
	}
	if v, ok := fields[fieldMaxScale]; ok {
		if c.MaxScale, err = intField(fieldMaxScale, v, amount.UnboundedScale); err != nil {
			return amount.Context{}, err
		}
	}
	if v, ok := fields[fieldFlavor]; ok {
		flavor, err := stringField(fieldFlavor, v)
		if err != nil {
			return amount.Context{}, err
		}
		if c.Flavor, err = amount.ParseFlavor(flavor); err != nil {
			return amount.Context{}, err
		}
	}
	if v, ok := fields[fieldRoundingMode]; ok {
		mode, err := stringField(fieldRoundingMode, v)
		if err != nil {
			return amount.Context{}, err
		}
		c.RoundingMode = amount.RoundingMode(mode)
	}
	return c, nil
}

func intField(name string, v *structpb.Value, lower int) (int, error) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	f := n.NumberValue
	if f != math.Trunc(f) || f < float64(lower) || f > math.MaxInt32 {
		return 0, fmt.Errorf("%s must be an integer >= %d, got %v", name, lower, f)
	}
	return int(f), nil
}

// stringField reads a string field. A null value reads as "".
func stringField(name string, v *structpb.Value) (string, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	case *structpb.Value_NullValue, nil:
		return "", nil
	}
	return "", fmt.Errorf("%s must be a string", name)
}
