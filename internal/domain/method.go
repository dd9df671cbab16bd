package domain

import (
	"encoding/json"
	"fmt"
)

type MethodType string

const (
	MethodColumn         MethodType = "column"
	MethodAggregateSum   MethodType = "aggregate_sum"
	MethodAggregateCount MethodType = "aggregate_count"
	MethodCustom         MethodType = "custom"
)

// Method is how a chart maps fetched rows to datapoints. It is a closed set:
// ColumnMethod, SumMethod, CountMethod and CustomMethod are the only variants.
type Method interface {
	Type() MethodType
	isMethod()
}

// ColumnMethod plots row[X] against row[Y] for every row.
type ColumnMethod struct {
	X *string
	Y *string
}

// SumMethod groups rows by X and sums Y per group.
type SumMethod struct {
	X *string
	Y *string
}

// CountMethod groups rows by X and counts group members.
type CountMethod struct {
	X *string
}

// CustomMethod runs user-authored transform source over the rows.
type CustomMethod struct {
	Fn string
}

func (ColumnMethod) Type() MethodType { return MethodColumn }
func (SumMethod) Type() MethodType    { return MethodAggregateSum }
func (CountMethod) Type() MethodType  { return MethodAggregateCount }
func (CustomMethod) Type() MethodType { return MethodCustom }

func (ColumnMethod) isMethod() {}
func (SumMethod) isMethod()    {}
func (CountMethod) isMethod()  {}
func (CustomMethod) isMethod() {}

// DefaultMethod is the shape a chart falls back to when it has no table.
func DefaultMethod() Method {
	return ColumnMethod{}
}

// methodWire is the on-disk form. Pointers keep x/y as explicit nulls.
type methodWire struct {
	Type MethodType `json:"type"`
	X    *string    `json:"x"`
	Y    *string    `json:"y"`
}

type countWire struct {
	Type MethodType `json:"type"`
	X    *string    `json:"x"`
}

type customWire struct {
	Type MethodType `json:"type"`
	Fn   string     `json:"fn"`
}

// MarshalMethod encodes m as {"type": tag, ...fields}.
func MarshalMethod(m Method) ([]byte, error) {
	switch v := m.(type) {
	case nil:
		return json.Marshal(methodWire{Type: MethodColumn})
	case ColumnMethod:
		return json.Marshal(methodWire{Type: MethodColumn, X: v.X, Y: v.Y})
	case SumMethod:
		return json.Marshal(methodWire{Type: MethodAggregateSum, X: v.X, Y: v.Y})
	case CountMethod:
		return json.Marshal(countWire{Type: MethodAggregateCount, X: v.X})
	case CustomMethod:
		return json.Marshal(customWire{Type: MethodCustom, Fn: v.Fn})
	default:
		return nil, fmt.Errorf("unknown method %T", m)
	}
}

// UnmarshalMethod decodes the tagged form written by MarshalMethod.
func UnmarshalMethod(data []byte) (Method, error) {
	var head struct {
		Type MethodType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("method: %w", err)
	}

	switch head.Type {
	case MethodColumn, MethodAggregateSum:
		var w methodWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("method %s: %w", head.Type, err)
		}
		if head.Type == MethodColumn {
			return ColumnMethod{X: w.X, Y: w.Y}, nil
		}
		return SumMethod{X: w.X, Y: w.Y}, nil
	case MethodAggregateCount:
		var w countWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("method %s: %w", head.Type, err)
		}
		return CountMethod{X: w.X}, nil
	case MethodCustom:
		var w customWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("method %s: %w", head.Type, err)
		}
		return CustomMethod{Fn: w.Fn}, nil
	case "":
		return nil, fmt.Errorf("method: missing type")
	default:
		return nil, fmt.Errorf("method: unknown type %q", head.Type)
	}
}
