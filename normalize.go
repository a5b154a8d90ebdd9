package smartwallet

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

var (
	ErrCyclicValue       = errors.New("value contains a reference cycle")
	ErrNonIntegralNumber = errors.New("non-integral number can't be hex encoded")

	bigIntType  = reflect.TypeOf(big.Int{})
	uint256Type = reflect.TypeOf(uint256.Int{})
	addressType = reflect.TypeOf(common.Address{})
	hashType    = reflect.TypeOf(common.Hash{})
)

// Normalize converts an arbitrary nested value into the hex representation
// the wallet expects on the wire:
//   - funcs are dropped (nil at the top level, missing keys inside maps and structs)
//   - nil, strings and bools are returned unchanged
//   - *big.Int is hex encoded, zero being "0x0"
//   - other numeric scalars (ints, *uint256.Int) are hex encoded with a
//     redundant leading zero nibble stripped
//   - byte slices are hex encoded as-is, addresses and hashes use their Hex form
//   - slices and arrays are normalized element-wise, order preserved
//   - maps and structs become map[string]any with the same keys
//     (struct fields use their json name)
//
// Values must be acyclic; a reference cycle is reported as ErrCyclicValue.
func Normalize(v any) (any, error) {
	n := normalizer{visiting: map[visitKey]bool{}}
	out, _, err := n.normalize(reflect.ValueOf(v))
	return out, err
}

type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

type normalizer struct {
	visiting map[visitKey]bool
}

// normalize returns keep=false when the value must be omitted from its parent
func (n normalizer) normalize(v reflect.Value) (out any, keep bool, err error) {
	if !v.IsValid() {
		return nil, true, nil
	}

	switch v.Type() {
	case bigIntType:
		b := v.Interface().(big.Int)
		return hexutil.EncodeBig(&b), true, nil
	case uint256Type:
		u := v.Interface().(uint256.Int)
		return stripZeroNibble(u.Hex()), true, nil
	case addressType:
		return v.Interface().(common.Address).Hex(), true, nil
	case hashType:
		return v.Interface().(common.Hash).Hex(), true, nil
	}

	switch v.Kind() {
	case reflect.Func:
		return nil, false, nil
	case reflect.String:
		return v.String(), true, nil
	case reflect.Bool:
		return v.Bool(), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return stripZeroNibble(hexutil.EncodeBig(big.NewInt(v.Int()))), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return stripZeroNibble(hexutil.EncodeBig(new(big.Int).SetUint64(v.Uint()))), true, nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
			return nil, false, fmt.Errorf("%w: %v", ErrNonIntegralNumber, f)
		}
		i, _ := big.NewFloat(f).Int(nil)
		return stripZeroNibble(hexutil.EncodeBig(i)), true, nil
	case reflect.Interface:
		if v.IsNil() {
			return nil, true, nil
		}
		return n.normalize(v.Elem())
	case reflect.Pointer:
		if v.IsNil() {
			return nil, true, nil
		}
		if err := n.enter(v); err != nil {
			return nil, false, err
		}
		defer n.leave(v)
		return n.normalize(v.Elem())
	case reflect.Slice:
		if v.IsNil() {
			return nil, true, nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return hexutil.Encode(v.Bytes()), true, nil
		}
		if err := n.enter(v); err != nil {
			return nil, false, err
		}
		defer n.leave(v)
		return n.sequence(v)
	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(b), v)
			return hexutil.Encode(b), true, nil
		}
		return n.sequence(v)
	case reflect.Map:
		if v.IsNil() {
			return nil, true, nil
		}
		if err := n.enter(v); err != nil {
			return nil, false, err
		}
		defer n.leave(v)
		result := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			elem, keep, err := n.normalize(iter.Value())
			if err != nil {
				return nil, false, err
			}
			if keep {
				result[fmt.Sprint(iter.Key().Interface())] = elem
			}
		}
		return result, true, nil
	case reflect.Struct:
		return n.structure(v)
	}

	return nil, false, fmt.Errorf("can't normalize value of type %s", v.Type())
}

func (n normalizer) sequence(v reflect.Value) (any, bool, error) {
	result := make([]any, v.Len())
	for i := 0; i < v.Len(); i++ {
		elem, _, err := n.normalize(v.Index(i))
		if err != nil {
			return nil, false, err
		}
		// omitted elements keep their slot so positions stay aligned
		result[i] = elem
	}
	return result, true, nil
}

func (n normalizer) structure(v reflect.Value) (any, bool, error) {
	t := v.Type()
	result := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		elem, keep, err := n.normalize(v.Field(i))
		if err != nil {
			return nil, false, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if keep {
			result[name] = elem
		}
	}
	return result, true, nil
}

func (n normalizer) enter(v reflect.Value) error {
	key := visitKey{ptr: v.Pointer(), typ: v.Type()}
	if n.visiting[key] {
		return ErrCyclicValue
	}
	n.visiting[key] = true
	return nil
}

func (n normalizer) leave(v reflect.Value) {
	delete(n.visiting, visitKey{ptr: v.Pointer(), typ: v.Type()})
}

// stripZeroNibble turns "0x0f" into "0xf". "0x0" is left alone.
func stripZeroNibble(s string) string {
	if len(s) > 3 && strings.HasPrefix(s, "0x0") {
		return "0x" + s[3:]
	}
	return s
}
