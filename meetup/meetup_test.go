package meetup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/meetupgraph/meetupgraph/attendance"
	"github.com/meetupgraph/meetupgraph/dot"
	"github.com/meetupgraph/meetupgraph/graphs"
	"github.com/meetupgraph/meetupgraph/graphs/kuzu"
	"github.com/meetupgraph/meetupgraph/render"
)

// fakeStore answers every query with a fixed result.
type fakeStore struct {
	result *graphs.Result
	err    error

	queries []string
	params  []map[string]any
}

func (s *fakeStore) Query(_ context.Context, query string, params map[string]any, _ ...graphs.Option) (*graphs.Result, error) {
	s.queries = append(s.queries, query)
	s.params = append(s.params, params)
	return s.result, s.err
}

func (s *fakeStore) MergeGroup(context.Context, []string) error { return nil }
func (s *fakeStore) DeleteAll(context.Context) error            { return nil }
func (s *fakeStore) HealthCheck(context.Context) error          { return nil }
func (s *fakeStore) Close() error                               { return nil }

type renderFunc func(ctx context.Context, description string, extraArgs []string) ([]byte, error)

func (f renderFunc) Render(ctx context.Context, description string, extraArgs []string) ([]byte, error) {
	return f(ctx, description, extraArgs)
}

// capturingRenderer returns image and remembers its last input.
type capturingRenderer struct {
	image       []byte
	description string
	args        []string
	calls       int
}

func (r *capturingRenderer) Render(_ context.Context, description string, extraArgs []string) ([]byte, error) {
	r.calls++
	r.description = description
	r.args = extraArgs
	return r.image, nil
}

func person(name string) graphs.Node {
	return graphs.Node{Labels: []string{"Person"}, Properties: map[string]any{"name": name}}
}

func pairs(names ...[2]string) *graphs.Result {
	result := &graphs.Result{Keys: []string{"p", "q"}}
	for _, n := range names {
		result.Rows = append(result.Rows, graphs.Row{
			Keys:   []string{"p", "q"},
			Values: []any{person(n[0]), person(n[1])},
		})
	}
	return result
}

func TestGraph(t *testing.T) {
	store := &fakeStore{result: pairs([2]string{"bob", "alice"}, [2]string{"bob", "carol"})}
	renderer := &capturingRenderer{image: []byte("png")}
	svc := NewService(store, renderer, WithLogger(zaptest.NewLogger(t)))

	image, err := svc.Graph(context.Background(), " Bob ", "-Gdpi=300 -Kneato")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), image)

	assert.Equal(t, []string{ConnectionsQuery}, store.queries)
	assert.Equal(t, map[string]any{"name": "bob"}, store.params[0])

	want := "strict graph meetup_graph {\nlayout=circo\nsize=\"60,60\"\noneblock=true\n" +
		"\"BOB\" -- \"ALICE\"\n\"BOB\" -- \"CAROL\"\n}"
	if diff := cmp.Diff(want, renderer.description); diff != "" {
		t.Errorf("description mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"-Gdpi=300", "-Kneato"}, renderer.args)
}

func TestGraphArgumentErrors(t *testing.T) {
	store := &fakeStore{result: pairs()}
	renderer := &capturingRenderer{}
	svc := NewService(store, renderer)
	ctx := context.Background()

	_, err := svc.Graph(ctx, "  ", "")
	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "who", argErr.Name)

	_, err = svc.GraphQuery(ctx, "", "")
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "query", argErr.Name)

	_, err = svc.Query(ctx, "")
	require.ErrorAs(t, err, &argErr)

	_, err = svc.Graph(ctx, "bob", "-o /etc/passwd")
	assert.ErrorIs(t, err, render.ErrArgument)

	assert.Empty(t, store.queries)
	assert.Zero(t, renderer.calls)
}

func TestGraphQueryMissingName(t *testing.T) {
	store := &fakeStore{result: &graphs.Result{Rows: []graphs.Row{
		{Keys: []string{"e"}, Values: []any{graphs.Node{Labels: []string{"Event"}}}},
	}}}
	renderer := &capturingRenderer{}
	svc := NewService(store, renderer)

	_, err := svc.GraphQuery(context.Background(), "MATCH (e) RETURN e", "")

	var missing *graphs.MissingPropertyError
	require.ErrorAs(t, err, &missing)
	assert.Zero(t, renderer.calls)
}

func TestGraphQueryStoreFailure(t *testing.T) {
	storeErr := fmt.Errorf("%w: Invalid input 'X'", graphs.ErrQueryFailed)
	svc := NewService(&fakeStore{err: storeErr}, &capturingRenderer{})

	_, err := svc.GraphQuery(context.Background(), "X", "")
	assert.ErrorIs(t, err, graphs.ErrQueryFailed)
	assert.Equal(t, "Query failed: Invalid input 'X'", UserMessage(err))
}

func TestQuery(t *testing.T) {
	store := &fakeStore{result: &graphs.Result{
		Keys: []string{"name", "degree"},
		Rows: []graphs.Row{{Keys: []string{"name", "degree"}, Values: []any{"bob", int64(3)}}},
	}}
	svc := NewService(store, &capturingRenderer{})

	text, err := svc.Query(context.Background(), "MATCH (p) RETURN p.name AS name, 3 AS degree")
	require.NoError(t, err)
	assert.Equal(t, `name: "bob", degree: 3`, text)
}

func TestExport(t *testing.T) {
	store := &fakeStore{result: pairs([2]string{"alice", "bob"})}
	svc := NewService(store, &capturingRenderer{},
		WithDescriptionOptions(dot.WithLayout("neato")))

	description, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{ExportQuery}, store.queries)
	assert.Contains(t, description, "layout=neato\n")
	assert.Contains(t, description, "\"ALICE\" -- \"BOB\"\n")
}

func TestHandle(t *testing.T) {
	long := strings.Repeat("x", MaxMessageLength+1)

	tests := []struct {
		name     string
		store    *fakeStore
		renderer Renderer
		cmd      Command
		want     Reply
	}{
		{
			name:     "graph replies with image",
			store:    &fakeStore{result: pairs([2]string{"bob", "alice"})},
			renderer: &capturingRenderer{image: []byte("png")},
			cmd:      Command{Name: CommandGraph, Options: map[string]string{"who": "bob"}},
			want:     Reply{Files: []Attachment{{Name: "graph.png", Data: []byte("png")}}},
		},
		{
			name:     "graphquery replies with image",
			store:    &fakeStore{result: pairs([2]string{"bob", "alice"})},
			renderer: &capturingRenderer{image: []byte("png")},
			cmd:      Command{Name: CommandGraphQuery, Options: map[string]string{"query": "MATCH (p)-[:MET]-(q) RETURN p, q"}},
			want:     Reply{Files: []Attachment{{Name: "graph.png", Data: []byte("png")}}},
		},
		{
			name: "short query result is inline",
			store: &fakeStore{result: &graphs.Result{Rows: []graphs.Row{
				{Keys: []string{"n"}, Values: []any{int64(1)}},
			}}},
			cmd:  Command{Name: CommandQuery, Options: map[string]string{"query": "RETURN 1 AS n"}},
			want: Reply{Content: "n: 1"},
		},
		{
			name: "long query result is attached",
			store: &fakeStore{result: &graphs.Result{Rows: []graphs.Row{
				{Keys: []string{"s"}, Values: []any{long}},
			}}},
			cmd: Command{Name: CommandQuery, Options: map[string]string{"query": "RETURN $s AS s"}},
			want: Reply{Files: []Attachment{{
				Name: "result.txt",
				Data: []byte(`s: "` + long + `"`),
			}}},
		},
		{
			name:  "empty query result",
			store: &fakeStore{result: &graphs.Result{}},
			cmd:   Command{Name: CommandQuery, Options: map[string]string{"query": "MATCH (n) RETURN n"}},
			want:  Reply{Content: "The query returned no rows."},
		},
		{
			name:  "missing argument",
			store: &fakeStore{},
			cmd:   Command{Name: CommandGraph},
			want:  Reply{Content: `Invalid command: argument "who" is required.`},
		},
		{
			name:  "unknown command",
			store: &fakeStore{},
			cmd:   Command{Name: "dance"},
			want:  Reply{Content: "Command doesn't exist"},
		},
		{
			name:  "renderer panic is recovered",
			store: &fakeStore{result: pairs([2]string{"bob", "alice"})},
			renderer: renderFunc(func(context.Context, string, []string) ([]byte, error) {
				panic("boom")
			}),
			cmd:  Command{Name: CommandGraph, Options: map[string]string{"who": "bob"}},
			want: Reply{Content: "Something went wrong while handling the command."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := tt.renderer
			if renderer == nil {
				renderer = &capturingRenderer{}
			}
			svc := NewService(tt.store, renderer, WithLogger(zaptest.NewLogger(t)))

			got := svc.Handle(context.Background(), tt.cmd)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextReplyCountsCharacters(t *testing.T) {
	text := strings.Repeat("é", MaxMessageLength)
	assert.Equal(t, Reply{Content: text}, TextReply(text))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{
			"missing property",
			fmt.Errorf("row 0: %w", &graphs.MissingPropertyError{Column: "e", Property: "name", Labels: []string{"Event"}}),
			`Cannot draw the result: node (:Event) in column "e" has no "name" property.`,
		},
		{"too many rows", fmt.Errorf("%w: limit is 5", graphs.ErrTooManyRows), "The query returned too many rows."},
		{"renderer argument", render.CheckArgs([]string{"-O"}), `That renderer argument is not allowed: "-O".`},
		{
			"renderer timeout",
			&render.Error{Op: "render", Err: fmt.Errorf("%w after 30s", render.ErrTimeout)},
			"Rendering took too long and was stopped.",
		},
		{"renderer missing", &render.Error{Op: "spawn", Err: render.ErrSpawn}, "The renderer is not available."},
		{
			"renderer exit",
			fmt.Errorf("render graph: %w", &render.Error{
				Op:     "render",
				Stderr: "Error: <stdin>: syntax error in line 5\nmore",
				Err:    render.ErrExit,
			}),
			"The renderer failed: Error: <stdin>: syntax error in line 5",
		},
		{
			"store timeout",
			fmt.Errorf("%w: %w", graphs.ErrQueryFailed, context.DeadlineExceeded),
			"The query took too long and was stopped.",
		},
		{"unknown", errors.New("boom"), "Something went wrong while handling the command."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestConnectionsEndToEnd(t *testing.T) {
	store, err := kuzu.NewKuzu(kuzu.WithInMemory(true), kuzu.WithAllowDangerousRequests(true))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	rows := "_,_,_,Meetup1,Alice,Bob,Carol\n_,_,_,,Bob,Dana\n"
	_, err = attendance.NewImporter(store, attendance.WithHeader(false)).Import(ctx, strings.NewReader(rows))
	require.NoError(t, err)

	stub := []byte("\x89PNG stub")
	renderer := &capturingRenderer{image: stub}
	svc := NewService(store, renderer, WithLogger(zaptest.NewLogger(t)))

	image, err := svc.Graph(ctx, "Bob", "")
	require.NoError(t, err)
	assert.Equal(t, stub, image)

	lines := strings.Split(renderer.description, "\n")
	var edges []string
	for _, line := range lines {
		if strings.Contains(line, " -- ") {
			edges = append(edges, line)
		}
	}

	require.Len(t, edges, 3)
	for _, edge := range edges {
		assert.True(t, strings.HasPrefix(edge, `"BOB" -- `), "edge %q does not start at BOB", edge)
	}
	assert.ElementsMatch(t, []string{`"BOB" -- "ALICE"`, `"BOB" -- "CAROL"`, `"BOB" -- "DANA"`}, edges)

	description, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(description, " -- "))
}
