package awsfake

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	ssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// SSM is an in-memory Parameter Store.
type SSM struct {
	mu     sync.Mutex
	Values map[string]string
	Types  map[string]ssmtypes.ParameterType
	Calls  []string
	Err    error
}

// NewSSM returns a store seeded with values.
func NewSSM(values map[string]string) *SSM {
	s := &SSM{Values: map[string]string{}, Types: map[string]ssmtypes.ParameterType{}}
	for k, v := range values {
		s.Values[k] = v
	}
	return s
}

func (s *SSM) GetParameter(ctx context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := aws.ToString(in.Name)
	s.Calls = append(s.Calls, "GetParameter:"+name)
	if s.Err != nil {
		return nil, s.Err
	}
	v, ok := s.Values[name]
	if !ok {
		return nil, APIError("ParameterNotFound", "")
	}
	return &ssm.GetParameterOutput{Parameter: &ssmtypes.Parameter{Name: aws.String(name), Value: aws.String(v)}}, nil
}

func (s *SSM) PutParameter(ctx context.Context, in *ssm.PutParameterInput, _ ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := aws.ToString(in.Name)
	s.Calls = append(s.Calls, "PutParameter:"+name)
	if s.Err != nil {
		return nil, s.Err
	}
	s.Values[name] = aws.ToString(in.Value)
	s.Types[name] = in.Type
	return &ssm.PutParameterOutput{Version: 1}, nil
}

func (s *SSM) DeleteParameter(ctx context.Context, in *ssm.DeleteParameterInput, _ ...func(*ssm.Options)) (*ssm.DeleteParameterOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := aws.ToString(in.Name)
	s.Calls = append(s.Calls, "DeleteParameter:"+name)
	if s.Err != nil {
		return nil, s.Err
	}
	if _, ok := s.Values[name]; !ok {
		return nil, APIError("ParameterNotFound", "")
	}
	delete(s.Values, name)
	return &ssm.DeleteParameterOutput{}, nil
}
