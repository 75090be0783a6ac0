package inspect

import (
	"testing"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/jsfuzz/irtypes/internal/analyzer"
	"github.com/jsfuzz/irtypes/internal/env"
	"github.com/jsfuzz/irtypes/internal/ir"
)

func mustServer(t *testing.T) (*Server, *analyzer.Analyzer) {
	t.Helper()
	an := analyzer.New(env.NewStatic(), nil)
	s, err := New(an)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, an
}

func findMethod(t *testing.T, s *Server, name string) *desc.MethodDescriptor {
	t.Helper()
	for _, m := range s.svc.GetMethods() {
		if m.GetName() == name {
			return m
		}
	}
	t.Fatalf("method %s not found in embedded schema", name)
	return nil
}

// roundtrip decodes req into the shape handle's dec callback expects: a
// fresh message of the same type, populated by marshal/unmarshal rather
// than a direct field copy, exercising the same wire path a real RPC
// call takes.
func roundtrip(req *dynamic.Message) func(any) error {
	return func(m any) error {
		dst := m.(*dynamic.Message)
		b, err := req.Marshal()
		if err != nil {
			return err
		}
		return dst.Unmarshal(b)
	}
}

func TestTypeOfReturnsCurrentRendering(t *testing.T) {
	s, an := mustServer(t)
	v := ir.Variable(1)

	load := ir.New(ir.OpLoadInteger, 0)
	load.Outputs = []ir.Variable{v}
	if err := an.Analyze(load); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	md := findMethod(t, s, "TypeOf")
	req := dynamic.NewMessage(md.GetInputType())
	req.SetFieldByName("variable", int32(v))

	out, err := s.handle(md, roundtrip(req))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	resp := out.(*dynamic.Message)
	if got := resp.GetFieldByName("rendering").(string); got != "integer" {
		t.Errorf("TypeOf rendering = %q, want %q", got, "integer")
	}
}

func TestGetTypeGroupCountStartsAtZero(t *testing.T) {
	s, _ := mustServer(t)

	md := findMethod(t, s, "GetTypeGroupCount")
	req := dynamic.NewMessage(md.GetInputType())

	out, err := s.handle(md, roundtrip(req))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	resp := out.(*dynamic.Message)
	if got := resp.GetFieldByName("count").(int32); got != 0 {
		t.Errorf("GetTypeGroupCount = %d, want 0", got)
	}
}

func TestInferMethodSignaturesOnUnknownNameIsEmpty(t *testing.T) {
	s, an := mustServer(t)
	v := ir.Variable(1)

	load := ir.New(ir.OpLoadInteger, 0)
	load.Outputs = []ir.Variable{v}
	if err := an.Analyze(load); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	md := findMethod(t, s, "InferMethodSignatures")
	req := dynamic.NewMessage(md.GetInputType())
	req.SetFieldByName("variable", int32(v))
	req.SetFieldByName("name", "noSuchMethod")

	out, err := s.handle(md, roundtrip(req))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	resp := out.(*dynamic.Message)
	sigs, _ := resp.GetFieldByName("signatures").([]any)
	if len(sigs) != 0 {
		t.Errorf("expected no signatures for an unknown method, got %v", sigs)
	}
}

func TestCheckScalarFieldTypesRejectsAMismatchedField(t *testing.T) {
	fd, err := parseEmbeddedSchema()
	if err != nil {
		t.Fatalf("parseEmbeddedSchema: %v", err)
	}
	svc := fd.FindService(serviceFullName)
	if svc == nil {
		t.Fatalf("service %s not found", serviceFullName)
	}

	original := scalarFields[0]
	defer func() { scalarFields[0] = original }()
	scalarFields[0] = scalarField{original.message, original.field, descriptorpb.FieldDescriptorProto_TYPE_STRING}

	if err := checkScalarFieldTypes(svc); err == nil {
		t.Errorf("expected a type mismatch error for %s.%s", original.message, original.field)
	}
}

func TestDescribeMethodsCoversEveryRPC(t *testing.T) {
	s, _ := mustServer(t)

	lines := s.DescribeMethods()
	if len(lines) != len(s.svc.GetMethods()) {
		t.Fatalf("DescribeMethods returned %d lines, want %d", len(lines), len(s.svc.GetMethods()))
	}
	for _, m := range s.svc.GetMethods() {
		want := "inspect.Inspect." + m.GetName() + "("
		found := false
		for _, line := range lines {
			if len(line) >= len(want) && line[:len(want)] == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("DescribeMethods missing an entry for %s, got %v", m.GetName(), lines)
		}
	}
}
