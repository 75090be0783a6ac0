// Package inspect exposes an analyzer.Analyzer's query surface as a
// gRPC service, built the way the language runtime this project started
// from wires a dynamically-registered RPC service: parse a .proto
// schema at startup with protoreflect's protoparse, and hand
// google.golang.org/grpc a ServiceDesc whose handlers read and write
// protoreflect/dynamic messages directly, so there's no generated
// *.pb.go stub to keep in sync with the schema above.
package inspect

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/jsfuzz/irtypes/internal/analyzer"
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/lattice"
)

//go:embed inspect.proto
var protoSource string

const serviceFullName = "inspect.Inspect"

// Server wraps a live *analyzer.Analyzer behind the Inspect service
// descriptor parsed from inspect.proto. An Analyzer is not safe for
// concurrent Analyze/query calls, so every RPC serializes on mu —
// one inspected session per Server, same as one *grpc.ClientConn per
// GrpcConnObject upstream.
type Server struct {
	mu  sync.Mutex
	an  *analyzer.Analyzer
	svc *desc.ServiceDescriptor
}

// New builds a Server over an already-constructed Analyzer. It parses
// the embedded schema once; a malformed schema is a build-time bug, not
// a runtime condition, so New returns an error rather than panicking
// only so embedders can log it through their own error-handling path.
func New(an *analyzer.Analyzer) (*Server, error) {
	fd, err := parseEmbeddedSchema()
	if err != nil {
		return nil, fmt.Errorf("inspect: parsing embedded schema: %w", err)
	}
	svc := fd.FindService(serviceFullName)
	if svc == nil {
		return nil, fmt.Errorf("inspect: service %s not found in embedded schema", serviceFullName)
	}
	if err := checkScalarFieldTypes(svc); err != nil {
		return nil, fmt.Errorf("inspect: embedded schema drifted from server.go's field accessors: %w", err)
	}
	return &Server{an: an, svc: svc}, nil
}

// scalarField pairs a message field this package reads/writes directly
// (by name, as a Go scalar) with the wire type server.go's accessor
// assumes. checkScalarFieldTypes catches a schema edit that silently
// changed one of these types before it turns into a panic deep inside a
// live RPC handler's type assertion.
type scalarField struct {
	message string
	field   string
	want    descriptorpb.FieldDescriptorProto_Type
}

var scalarFields = []scalarField{
	{"VariableRequest", "variable", descriptorpb.FieldDescriptorProto_TYPE_INT32},
	{"PropertyRequest", "variable", descriptorpb.FieldDescriptorProto_TYPE_INT32},
	{"PropertyRequest", "name", descriptorpb.FieldDescriptorProto_TYPE_STRING},
	{"GroupRequest", "index", descriptorpb.FieldDescriptorProto_TYPE_INT32},
	{"TypeResponse", "rendering", descriptorpb.FieldDescriptorProto_TYPE_STRING},
	{"SignatureListResponse", "signatures", descriptorpb.FieldDescriptorProto_TYPE_STRING},
	{"CountResponse", "count", descriptorpb.FieldDescriptorProto_TYPE_INT32},
	{"VariableListResponse", "variables", descriptorpb.FieldDescriptorProto_TYPE_INT32},
	{"GroupListResponse", "groups", descriptorpb.FieldDescriptorProto_TYPE_INT32},
}

func checkScalarFieldTypes(svc *desc.ServiceDescriptor) error {
	fileMessages := svc.GetFile().GetMessageTypes()
	byName := make(map[string]*desc.MessageDescriptor, len(fileMessages))
	for _, m := range fileMessages {
		byName[m.GetName()] = m
	}
	for _, sf := range scalarFields {
		msg, ok := byName[sf.message]
		if !ok {
			return fmt.Errorf("message %s not found", sf.message)
		}
		fd := msg.FindFieldByName(sf.field)
		if fd == nil {
			return fmt.Errorf("message %s has no field %s", sf.message, sf.field)
		}
		if fd.GetType() != sf.want {
			return fmt.Errorf("%s.%s is %v, want %v", sf.message, sf.field, fd.GetType(), sf.want)
		}
	}
	return nil
}

func parseEmbeddedSchema() (*desc.FileDescriptor, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{"inspect.proto": protoSource}),
	}
	fds, err := parser.ParseFiles("inspect.proto")
	if err != nil {
		return nil, err
	}
	return fds[0], nil
}

// DescribeMethods renders one line per RPC the embedded schema
// declares, in the style `grpcurl describe` prints: full method path,
// then its request and response message names. A server binary calls
// this at startup so an operator can see the surface it's exposing
// without a separate schema file to cross-reference.
func (s *Server) DescribeMethods() []string {
	out := make([]string, 0, len(s.svc.GetMethods()))
	for _, m := range s.svc.GetMethods() {
		out = append(out, fmt.Sprintf("%s.%s(%s) returns (%s)",
			s.svc.GetFullyQualifiedName(), m.GetName(),
			m.GetInputType().GetName(), m.GetOutputType().GetName()))
	}
	return out
}

// Register installs the Inspect service onto gs. Call it before
// gs.Serve.
func (s *Server) Register(gs *grpc.Server) {
	sd := &grpc.ServiceDesc{
		ServiceName: s.svc.GetFullyQualifiedName(),
		HandlerType: (*any)(nil),
		Metadata:    s.svc.GetFile().GetName(),
	}
	for _, m := range s.svc.GetMethods() {
		md := m
		sd.Methods = append(sd.Methods, grpc.MethodDesc{
			MethodName: md.GetName(),
			Handler: func(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
				return srv.(*Server).handle(md, dec)
			},
		})
	}
	gs.RegisterService(sd, s)
}

func (s *Server) handle(md *desc.MethodDescriptor, dec func(any) error) (any, error) {
	in := dynamic.NewMessage(md.GetInputType())
	if err := dec(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := dynamic.NewMessage(md.GetOutputType())
	switch md.GetName() {
	case "TypeOf":
		out.SetFieldByName("rendering", s.an.TypeOf(variableField(in)).String())
	case "InferPropertyType":
		v, name := variableField(in), nameField(in)
		out.SetFieldByName("rendering", s.an.InferPropertyTypeOf(name, v).String())
	case "InferMethodSignatures":
		v, name := variableField(in), nameField(in)
		out.SetFieldByName("signatures", signatureStrings(s.an.InferMethodSignaturesOf(name, v)))
	case "InferConstructedType":
		out.SetFieldByName("rendering", s.an.InferConstructedType(variableField(in)).String())
	case "GetTypeGroupCount":
		out.SetFieldByName("count", int32(s.an.GetTypeGroupCount()))
	case "GetTypeGroup":
		out.SetFieldByName("variables", variableInts(s.an.GetTypeGroup(indexField(in))))
	case "GetTypeGroupDependencies":
		out.SetFieldByName("groups", intsToInt32(s.an.GetTypeGroupDependencies(indexField(in))))
	default:
		return nil, fmt.Errorf("inspect: unknown method %s", md.GetName())
	}
	return out, nil
}

func variableField(in *dynamic.Message) ir.Variable {
	return ir.Variable(in.GetFieldByName("variable").(int32))
}

func nameField(in *dynamic.Message) string {
	return in.GetFieldByName("name").(string)
}

func indexField(in *dynamic.Message) int {
	return int(in.GetFieldByName("index").(int32))
}

// The dynamic message API takes repeated fields as []interface{}, not a
// typed slice.
func signatureStrings(sigs []lattice.Signature) []any {
	out := make([]any, len(sigs))
	for i, sig := range sigs {
		out[i] = sig.String()
	}
	return out
}

func variableInts(vars []ir.Variable) []any {
	out := make([]any, len(vars))
	for i, v := range vars {
		out[i] = int32(v)
	}
	return out
}

func intsToInt32(ints []int) []any {
	out := make([]any, len(ints))
	for i, v := range ints {
		out[i] = int32(v)
	}
	return out
}
