package grpcapi

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/anvil-platform/moneta/internal/amount"
)

// Client calls a remote AmountRegistry. Errors are gRPC status errors.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// FactoryInfo describes a remote factory.
type FactoryInfo struct {
	AmountType     amount.Type
	Context        amount.Context
	MaximalContext amount.Context
}

func (c *Client) Factory(ctx context.Context, t amount.Type) (FactoryInfo, error) {
	out, err := c.invoke(ctx, MethodGetFactory, map[string]any{fieldAmountType: string(t)})
	if err != nil {
		return FactoryInfo{}, err
	}
	fields := out.GetFields()
	def, err := DecodeContext(fields[fieldContext].GetStructValue())
	if err != nil {
		return FactoryInfo{}, fmt.Errorf("decode context: %w", err)
	}
	maximal, err := DecodeContext(fields[fieldMaximalContext].GetStructValue())
	if err != nil {
		return FactoryInfo{}, fmt.Errorf("decode maximal context: %w", err)
	}
	return FactoryInfo{
		AmountType:     amount.Type(fields[fieldAmountType].GetStringValue()),
		Context:        def,
		MaximalContext: maximal,
	}, nil
}

func (c *Client) AmountTypes(ctx context.Context) ([]amount.Type, error) {
	out, err := c.invoke(ctx, MethodGetAmountTypes, nil)
	if err != nil {
		return nil, err
	}
	values := out.GetFields()[fieldAmountTypes].GetListValue().GetValues()
	types := make([]amount.Type, 0, len(values))
	for _, v := range values {
		types = append(types, amount.Type(v.GetStringValue()))
	}
	return types, nil
}

func (c *Client) DefaultAmountType(ctx context.Context) (amount.Type, error) {
	out, err := c.invoke(ctx, MethodGetDefaultAmountType, nil)
	if err != nil {
		return "", err
	}
	return amount.Type(out.GetFields()[fieldAmountType].GetStringValue()), nil
}

// QueryAmountType asks the server to resolve required. A nil required asks
// for the default amount type.
func (c *Client) QueryAmountType(ctx context.Context, required *amount.Context) (amount.Type, error) {
	req := map[string]any{}
	if required != nil {
		req[fieldContext] = contextToMap(*required)
	}
	out, err := c.invoke(ctx, MethodQueryAmountType, req)
	if err != nil {
		return "", err
	}
	return amount.Type(out.GetFields()[fieldAmountType].GetStringValue()), nil
}

func (c *Client) invoke(ctx context.Context, method string, req map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out); err != nil {
		return nil, err
	}
	return out, nil
}
