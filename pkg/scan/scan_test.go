package scan

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/quidome/mediasort/pkg/pathfilter"
)

func TestWalk_PrunesIgnoredDirectoriesAndFiles(t *testing.T) {
	root := t.TempDir()

	writeFile(t, root, "a.jpg")
	writeFile(t, root, "desktop.ini")
	writeFile(t, root, "2017/11/b.mp4")
	writeFile(t, root, "2017/11/.picasa.ini")
	writeFile(t, root, ".hidden/c.jpg")
	writeFile(t, root, "Picasa2/d.jpg")
	writeFile(t, root, "sub/.thumbs/e.jpg")
	writeFile(t, root, "sub/f.json")
	writeFile(t, root, "sub/g.png")

	got := relAll(t, root, Collect(root, DefaultOptions()))
	want := []string{"2017/11/b.mp4", "a.jpg", "sub/g.png"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected result\n got: %#v\nwant: %#v", got, want)
	}
}

func TestWalk_PrunesBeforeDescending(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep/a.jpg")
	writeFile(t, root, "skipme/inner/b.jpg")

	filter, err := pathfilter.New([]string{`skipme$`})
	if err != nil {
		t.Fatalf("new filter: %v", err)
	}

	// Only the directory path itself matches; files inside would not.
	if filter.ShouldIgnore(filepath.Join(root, "skipme", "inner", "b.jpg")) {
		t.Fatalf("test precondition: file path must not match the directory rule")
	}

	got := relAll(t, root, Collect(root, Options{MaxDepth: -1, Filter: filter}))
	want := []string{"keep/a.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected result\n got: %#v\nwant: %#v", got, want)
	}
}

func TestWalk_PrunesTopLevelHiddenEntriesOfRelativeRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/objects/IMG_20130730.jpg")
	writeFile(t, root, ".mediasort.lock")
	writeFile(t, root, "sub/.cache/b.jpg")
	writeFile(t, root, "a.jpg")
	t.Chdir(root)

	got := relAll(t, ".", Collect(".", DefaultOptions()))
	want := []string{"a.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected result\n got: %#v\nwant: %#v", got, want)
	}
}

func TestWalk_IsRestartable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.jpg")
	writeFile(t, root, "b/c.jpg")

	seq := Walk(root, DefaultOptions())

	var first, second []string
	for p := range seq {
		first = append(first, p)
	}
	for p := range seq {
		second = append(second, p)
	}
	if len(first) != 2 || !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical re-walks\nfirst:  %#v\nsecond: %#v", first, second)
	}
}

func TestWalk_StopsWhenConsumerBreaks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.jpg")
	writeFile(t, root, "b.jpg")
	writeFile(t, root, "c.jpg")

	n := 0
	for range Walk(root, DefaultOptions()) {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("expected exactly one path before break, got %d", n)
	}
}

func TestWalk_SkipsUnreadableDirectories(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root can read any directory")
	}

	root := t.TempDir()
	writeFile(t, root, "locked/a.jpg")
	writeFile(t, root, "open/b.jpg")

	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	got := relAll(t, root, Collect(root, DefaultOptions()))
	want := []string{"open/b.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected result\n got: %#v\nwant: %#v", got, want)
	}
}

func TestWalk_MissingRootYieldsNothing(t *testing.T) {
	got := Collect(filepath.Join(t.TempDir(), "missing"), DefaultOptions())
	if len(got) != 0 {
		t.Fatalf("expected no paths, got %#v", got)
	}
}

func TestRecords_MaxDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.jpg")
	writeFile(t, root, "b.MP4")
	writeFile(t, root, "sub/d.png")
	writeFile(t, root, "sub/nested/e.mov")

	testCases := []struct {
		name     string
		maxDepth int
		want     []string
	}{
		{
			name:     "depth 0 includes only top-level",
			maxDepth: 0,
			want:     []string{"a.jpg", "b.MP4"},
		},
		{
			name:     "depth 1 includes one subdirectory",
			maxDepth: 1,
			want:     []string{"a.jpg", "b.MP4", "sub/d.png"},
		},
		{
			name:     "unlimited includes nested subdirectories",
			maxDepth: -1,
			want:     []string{"a.jpg", "b.MP4", "sub/d.png", "sub/nested/e.mov"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.MaxDepth = tc.maxDepth

			records, err := Records(root, opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := make([]string, 0, len(records))
			for _, r := range records {
				got = append(got, r.Path)
				if r.FileSizeBytes <= 0 {
					t.Fatalf("expected size for %s", r.Path)
				}
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("unexpected result\n got: %#v\nwant: %#v", got, tc.want)
			}
		})
	}
}

func TestRecords_InvalidMaxDepth(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxDepth = -2

	if _, err := Records(t.TempDir(), opts); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestRecords_RootMustBeDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.jpg")

	if _, err := Records(filepath.Join(root, "a.jpg"), DefaultOptions()); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func writeFile(t *testing.T, dir string, relPath string) {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(relPath), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}
