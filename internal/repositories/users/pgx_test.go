package users

import (
	"reflect"
	"strings"
	"testing"

	"github.com/orgball2608/insta-stories-viewer/internal/domain"
)

func strPtr(s string) *string { return &s }
func intPtr(n int64) *int64   { return &n }

func TestListQuery(t *testing.T) {
	query, args, err := listQuery()
	if err != nil {
		t.Fatalf("listQuery() error = %v", err)
	}

	for _, want := range []string{
		"FROM users u",
		"LEFT JOIN stories s ON s.user_id = u.id",
		"WHERE u.hidden = $1",
		"ORDER BY u.position, u.id, s.position, s.id",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("query %q does not contain %q", query, want)
		}
	}
	if !reflect.DeepEqual(args, []any{false}) {
		t.Errorf("args = %v, want [false]", args)
	}
}

func TestGroupRows(t *testing.T) {
	rows := []joinedRow{
		{user: User{ID: "a", Username: "alice", AvatarURL: "https://cdn.test/a.png"}, story: Story{ID: strPtr("a1"), URL: strPtr("https://cdn.test/a1.jpg"), DurationMs: intPtr(3000)}},
		{user: User{ID: "a", Username: "alice", AvatarURL: "https://cdn.test/a.png"}, story: Story{ID: strPtr("a2"), URL: strPtr("https://cdn.test/a2.jpg")}},
		{user: User{ID: "b", Username: "bob"}},
		{user: User{ID: "c", Username: "carol"}, story: Story{ID: strPtr("c1"), URL: strPtr("https://cdn.test/c1.jpg"), DurationMs: intPtr(0)}},
	}

	got := groupRows(rows)
	want := []domain.User{
		{ID: "a", Username: "alice", AvatarURL: "https://cdn.test/a.png", Stories: []domain.Story{
			{ID: "a1", URL: "https://cdn.test/a1.jpg", DurationMs: 3000},
			{ID: "a2", URL: "https://cdn.test/a2.jpg"},
		}},
		{ID: "b", Username: "bob", Stories: []domain.Story{}},
		{ID: "c", Username: "carol", Stories: []domain.Story{
			{ID: "c1", URL: "https://cdn.test/c1.jpg"},
		}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("groupRows() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestGroupRowsEmpty(t *testing.T) {
	if got := groupRows(nil); len(got) != 0 {
		t.Errorf("groupRows(nil) = %v, want empty", got)
	}
}
