package resolve

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/vango-dev/flight/pkg/vdom"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestResolvePrimitivesUnchanged(t *testing.T) {
	nodes := []*vdom.Node{vdom.Text("a"), vdom.Number(1), vdom.Empty()}
	for _, n := range nodes {
		got, err := Resolve(context.Background(), n)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != n {
			t.Errorf("%v node should be returned unchanged", n.Kind())
		}
	}
}

func TestResolveIdempotent(t *testing.T) {
	tree := vdom.Section(vdom.H1("Welcome"), vdom.Div(vdom.List(vdom.Text("a"), vdom.P("b"))))

	got, err := Resolve(context.Background(), tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tree {
		t.Error("resolving a resolved tree should return the same node")
	}
}

func TestResolveFixpoint(t *testing.T) {
	inner := vdom.Func("Inner", func(p vdom.Props) *vdom.Node {
		return vdom.H2(vdom.Class("title"), p.String("label"))
	})
	outer := vdom.Func("Outer", func(p vdom.Props) *vdom.Node {
		return vdom.Comp(inner, vdom.Prop("label", p.String("label")+"!"))
	})

	got, err := Resolve(context.Background(), vdom.Comp(outer, vdom.Prop("label", "hi")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := vdom.H2(vdom.Class("title"), "hi!")
	if !vdom.Equal(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if !vdom.IsResolved(got) {
		t.Error("result should contain no component nodes")
	}
}

func TestResolveNestedInsideHostElements(t *testing.T) {
	footer := vdom.Func("Footer", func(p vdom.Props) *vdom.Node {
		return vdom.Footer(vdom.P(vdom.I("(c) ", p.String("author"))))
	})
	layout := vdom.Func("Layout", func(p vdom.Props) *vdom.Node {
		return vdom.Html(vdom.Body(vdom.Main(p.Children), vdom.Comp(footer, vdom.Prop("author", "Jae Doe"))))
	})

	tree := vdom.Comp(layout, vdom.Section("page"))
	got, err := Resolve(context.Background(), tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := vdom.Html(vdom.Body(
		vdom.Main(vdom.Section("page")),
		vdom.Footer(vdom.P(vdom.I("(c) ", "Jae Doe"))),
	))
	if !vdom.Equal(got, want) {
		t.Errorf("resolved tree mismatch")
	}
	if vdom.IsResolved(tree) {
		t.Error("input tree must not be mutated")
	}
}

func TestResolveFanOutOrdering(t *testing.T) {
	// Component i finishes only after component i+1, so completion order
	// is the reverse of position order.
	const n = 3
	done := make([]chan struct{}, n+1)
	for i := range done {
		done[i] = make(chan struct{})
	}
	close(done[n])

	var mu sync.Mutex
	var completed []string

	items := make([]*vdom.Node, n)
	for i := 0; i < n; i++ {
		label := string(rune('a' + i))
		items[i] = vdom.Comp(vdom.AsyncFunc("Item", func(ctx context.Context, _ vdom.Props) (*vdom.Node, error) {
			select {
			case <-done[i+1]:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			mu.Lock()
			completed = append(completed, label)
			mu.Unlock()
			close(done[i])
			return vdom.Li(label), nil
		}))
	}

	got, err := Resolve(context.Background(), vdom.List(items...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"c", "b", "a"}, completed); diff != "" {
		t.Errorf("completion order mismatch (-want +got):\n%s", diff)
	}

	want := vdom.List(vdom.Li("a"), vdom.Li("b"), vdom.Li("c"))
	if !vdom.Equal(got, want) {
		t.Errorf("result order should follow input order")
	}
}

func TestResolveSiblingsRunConcurrently(t *testing.T) {
	const n = 4
	var started sync.WaitGroup
	started.Add(n)

	items := make([]*vdom.Node, n)
	for i := range items {
		items[i] = vdom.Comp(vdom.AsyncFunc("Barrier", func(ctx context.Context, _ vdom.Props) (*vdom.Node, error) {
			started.Done()
			started.Wait()
			return vdom.Text("ok"), nil
		}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := Resolve(ctx, vdom.Ul(items)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

var errMissing = errors.New("missing post")

func TestResolveErrorPropagates(t *testing.T) {
	ok := vdom.AsyncFunc("Ok", func(ctx context.Context, _ vdom.Props) (*vdom.Node, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	bad := vdom.AsyncFunc("Post", func(context.Context, vdom.Props) (*vdom.Node, error) {
		return nil, errMissing
	})

	_, err := Resolve(context.Background(), vdom.Div(vdom.Comp(ok), vdom.Comp(bad)))
	if !errors.Is(err, errMissing) {
		t.Fatalf("errors.Is(err, errMissing) = false, err = %v", err)
	}

	var re *ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ResolutionError, got %T", err)
	}
	if re.Component != "Post" {
		t.Errorf("Component = %q, want %q", re.Component, "Post")
	}
	if re.Path != "div>[1]" {
		t.Errorf("Path = %q, want %q", re.Path, "div>[1]")
	}
}

func TestResolveErrorPathNamesPosition(t *testing.T) {
	bad := vdom.Func("Broken", func(vdom.Props) *vdom.Node { panic("boom") })
	layout := vdom.Func("Layout", func(vdom.Props) *vdom.Node {
		return vdom.Main(vdom.P("intro"), vdom.Section(vdom.Comp(bad)))
	})

	tests := []struct {
		name string
		tree *vdom.Node
		want string
	}{
		{"single item", vdom.Div("a", vdom.Comp(bad)), "div>[1]"},
		{"nested lists", vdom.Ul(vdom.Li("a"), vdom.Li("b"), vdom.Li("c", vdom.Comp(bad))), "ul>[2]>li>[1]"},
		{"through a component", vdom.Body(vdom.Comp(layout)), "body>Layout>main>[1]>section"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(context.Background(), tt.tree)
			var re *ResolutionError
			if !errors.As(err, &re) {
				t.Fatalf("expected *ResolutionError, got %v", err)
			}
			if re.Path != tt.want {
				t.Errorf("Path = %q, want %q", re.Path, tt.want)
			}
		})
	}
}

func TestResolveNilComponent(t *testing.T) {
	_, err := Resolve(context.Background(), vdom.CompProps(nil, vdom.Props{}))
	if !errors.Is(err, ErrNilComponent) {
		t.Errorf("expected ErrNilComponent, got %v", err)
	}
}

func TestResolveNilResultIsEmpty(t *testing.T) {
	nothing := vdom.Func("Nothing", func(vdom.Props) *vdom.Node { return nil })

	got, err := Resolve(context.Background(), vdom.Comp(nothing))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != vdom.KindEmpty {
		t.Errorf("kind = %v, want Empty", got.Kind())
	}
}

func TestResolveMaxDepth(t *testing.T) {
	var loop vdom.Component
	loop = vdom.Func("Loop", func(vdom.Props) *vdom.Node { return vdom.Comp(loop) })

	r := New(WithMaxDepth(8))
	_, err := r.Resolve(context.Background(), vdom.Comp(loop))
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("expected ErrMaxDepthExceeded, got %v", err)
	}
}

func TestResolvePanicBecomesError(t *testing.T) {
	boom := vdom.Func("Boom", func(vdom.Props) *vdom.Node { panic("boom") })

	_, err := Resolve(context.Background(), vdom.Comp(boom))
	var re *ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ResolutionError, got %v", err)
	}
	if re.Component != "Boom" {
		t.Errorf("Component = %q", re.Component)
	}
}

func TestResolveCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := vdom.Func("Never", func(vdom.Props) *vdom.Node {
		t.Error("component should not run after cancellation")
		return nil
	})
	_, err := Resolve(ctx, vdom.Comp(c))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestResolutionErrorMessage(t *testing.T) {
	err := &ResolutionError{Component: "Post", Path: "html>body", Err: errMissing}
	want := "resolve Post at html>body: missing post"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	anon := &ResolutionError{Err: ErrNilComponent}
	if anon.Error() != "resolve <anonymous>: resolve: component node without component" {
		t.Errorf("got %q", anon.Error())
	}
}
