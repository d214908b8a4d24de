package planner

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Discover tests ---

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "song.mp3")
	touch(t, dir, "take.wav")
	touch(t, dir, "cover.jpg")
	touch(t, dir, "notes.txt")
	touch(t, dir, "memo.caf")

	files, _, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"memo.caf", "song.mp3", "take.wav"}, basenames(files))
}

func TestDiscover_AllAudioExtensions(t *testing.T) {
	dir := t.TempDir()
	exts := []string{".mp3", ".wav", ".ogg", ".m4a", ".aac", ".flac",
		".wma", ".aiff", ".aif", ".opus", ".caf"}
	for _, ext := range exts {
		touch(t, dir, "file"+ext)
	}
	touch(t, dir, "file.mp4")
	touch(t, dir, "file.mkv")

	files, _, err := Discover(dir)
	require.NoError(t, err)
	assert.Len(t, files, len(exts))
}

func TestDiscover_CaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "LOUD.MP3")
	touch(t, dir, "Mixed.Flac")

	files, _, err := Discover(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestDiscover_RecursiveInWalkOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b"), "c.wav")
	touch(t, dir, "a.mp3")
	touch(t, filepath.Join(dir, "b", "d"), "e.ogg")

	files, _, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.mp3"),
		filepath.Join(dir, "b", "c.wav"),
		filepath.Join(dir, "b", "d", "e.ogg"),
	}, files)
}

func TestDiscover_SkipsDirectoriesNamedLikeAudio(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "album.flac"), 0o755))
	touch(t, filepath.Join(dir, "album.flac"), "01.flac")

	files, _, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"01.flac"}, basenames(files))
}

func TestDiscover_FollowsFileSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := touch(t, t.TempDir(), "real.mp3")
	if err := os.Symlink(target, filepath.Join(dir, "link.mp3")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "missing.mp3"), filepath.Join(dir, "dangling.mp3")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	files, _, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"link.mp3"}, basenames(files))
}

func TestDiscover_EmptyDir(t *testing.T) {
	files, _, err := Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscover_MissingDir(t *testing.T) {
	_, _, err := Discover(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

// lockDir makes dir unreadable for the rest of the test. Root ignores
// permission bits, so the test is skipped there.
func lockDir(t *testing.T, dir string) {
	t.Helper()
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("needs POSIX permissions and a non-root user")
	}
	require.NoError(t, os.Chmod(dir, 0o000))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })
}

func TestDiscover_SkipsUnreadableSubdir(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.mp3")
	private := filepath.Join(dir, "private")
	touch(t, private, "x.mp3")
	lockDir(t, private)

	files, skipped, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3"}, basenames(files))
	assert.Equal(t, []string{private}, skipped)
}

// --- OutputPath tests ---

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		format string
		rel    string
		want   string
	}{
		{"top level", "wav", "a.mp3", filepath.Join("out", "wav", "a.wav")},
		{"nested", "flac", filepath.Join("b", "c.wav"), filepath.Join("out", "flac", "b", "c.flac")},
		{"only last extension", "flac", "live.2019.mp3", filepath.Join("out", "flac", "live.2019.flac")},
		{"same format", "mp3", "x.MP3", filepath.Join("out", "mp3", "x.mp3")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath("out", tt.format, tt.rel))
		})
	}
}

// --- CollisionResolver tests ---

func TestCollisionResolver(t *testing.T) {
	cr := NewCollisionResolver()
	dest := filepath.Join("out", "wav", "a.wav")

	assert.Equal(t, dest, cr.Resolve("a.mp3", dest))
	assert.Equal(t, dest, cr.Resolve("a.mp3", dest), "same owner keeps its path")
	assert.Equal(t, filepath.Join("out", "wav", "a - dup1.wav"), cr.Resolve("a.wav", dest))
	assert.Equal(t, filepath.Join("out", "wav", "a - dup2.wav"), cr.Resolve("a.ogg", dest))
	assert.Equal(t, filepath.Join("out", "wav", "a - dup1.wav"), cr.Resolve("a.wav", filepath.Join("out", "wav", "a - dup1.wav")))
}

// --- BuildPlan tests ---

func TestBuildPlan_Scenario(t *testing.T) {
	in := scenarioTree(t)
	out := t.TempDir()

	plan, err := BuildPlan(in, out, []string{"wav", "flac"}, true)
	require.NoError(t, err)

	assert.Len(t, plan.Sources, 2)
	assert.Equal(t, []string{
		filepath.Join(out, "wav", "a.wav"),
		filepath.Join(out, "flac", "a.flac"),
		filepath.Join(out, "wav", "b", "c.wav"),
		filepath.Join(out, "flac", "b", "c.flac"),
	}, dests(plan.Jobs))
	assert.Equal(t, []string{"wav", "flac", "wav", "flac"}, formatsOf(plan.Jobs))
	assert.Equal(t, filepath.Join("b", "c.wav"), plan.Jobs[2].Rel)
	assert.Equal(t, filepath.Join(in, "b", "c.wav"), plan.Jobs[3].Source)
}

func TestBuildPlan_SourcesTimesFormats(t *testing.T) {
	in := t.TempDir()
	for _, name := range []string{"1.mp3", "2.ogg", "3.opus", "4.m4a", "5.aif"} {
		touch(t, in, name)
	}
	formats := []string{"wav", "mp3", "flac"}

	plan, err := BuildPlan(in, t.TempDir(), formats, true)
	require.NoError(t, err)
	assert.Len(t, plan.Jobs, 5*len(formats))
	assert.Zero(t, plan.Existing)
}

func TestBuildPlan_SkipsExisting(t *testing.T) {
	in := scenarioTree(t)
	out := t.TempDir()
	touch(t, filepath.Join(out, "wav"), "a.wav")

	all, err := BuildPlan(in, out, []string{"wav", "flac"}, true)
	require.NoError(t, err)
	skipped, err := BuildPlan(in, out, []string{"wav", "flac"}, false)
	require.NoError(t, err)

	assert.Len(t, all.Jobs, 4)
	assert.Len(t, skipped.Jobs, 3)
	assert.Equal(t, 1, skipped.Existing)
	assert.NotContains(t, dests(skipped.Jobs), filepath.Join(out, "wav", "a.wav"))
}

func TestBuildPlan_Idempotent(t *testing.T) {
	in := scenarioTree(t)
	out := t.TempDir()
	touch(t, filepath.Join(out, "flac", "b"), "c.flac")

	first, err := BuildPlan(in, out, []string{"wav", "flac"}, false)
	require.NoError(t, err)
	second, err := BuildPlan(in, out, []string{"wav", "flac"}, false)
	require.NoError(t, err)

	assert.Equal(t, first.Jobs, second.Jobs)
	assert.Equal(t, first.Existing, second.Existing)
}

func TestBuildPlan_AllDone(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	touch(t, in, "a.mp3")
	touch(t, filepath.Join(out, "wav"), "a.wav")

	plan, err := BuildPlan(in, out, []string{"wav"}, false)
	require.NoError(t, err)
	assert.Empty(t, plan.Jobs)
	assert.Equal(t, 1, plan.Existing)
	assert.Len(t, plan.Sources, 1)
}

func TestBuildPlan_NoSources(t *testing.T) {
	in := t.TempDir()
	touch(t, in, "readme.txt")

	plan, err := BuildPlan(in, t.TempDir(), []string{"wav"}, false)
	require.NoError(t, err)
	assert.Empty(t, plan.Sources)
	assert.Empty(t, plan.Jobs)
}

func TestBuildPlan_UniqueDestinations(t *testing.T) {
	in := t.TempDir()
	touch(t, in, "a.mp3")
	touch(t, in, "a.wav")
	out := t.TempDir()

	plan, err := BuildPlan(in, out, []string{"wav", "mp3"}, true)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, d := range dests(plan.Jobs) {
		assert.False(t, seen[d], "duplicate destination %s", d)
		seen[d] = true
	}
	assert.Equal(t, 2, plan.Renamed)
	// a.mp3 sorts first and keeps the plain names.
	assert.Equal(t, filepath.Join(out, "wav", "a.wav"), plan.Jobs[0].Dest)
	assert.Equal(t, filepath.Join(out, "wav", "a - dup1.wav"), plan.Jobs[2].Dest)
}

func TestBuildPlan_ContinuesPastUnreadableSubdir(t *testing.T) {
	in := scenarioTree(t)
	private := filepath.Join(in, "private")
	touch(t, private, "x.mp3")
	lockDir(t, private)
	out := filepath.Join(t.TempDir(), "out")

	plan, err := BuildPlan(in, out, []string{"wav"}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3", "c.wav"}, basenames(plan.Sources))
	assert.Len(t, plan.Jobs, 2)
	assert.Equal(t, []string{private}, plan.Unreadable)
}

func TestBuildPlan_DoesNotTouchDisk(t *testing.T) {
	in := scenarioTree(t)
	out := filepath.Join(t.TempDir(), "convertidos")

	_, err := BuildPlan(in, out, []string{"wav"}, false)
	require.NoError(t, err)
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "planning must not create the output root")
}

// --- Helpers ---

// scenarioTree builds an input tree holding a.mp3 and b/c.wav.
func scenarioTree(t *testing.T) string {
	t.Helper()
	in := t.TempDir()
	touch(t, in, "a.mp3")
	touch(t, filepath.Join(in, "b"), "c.wav")
	return in
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte{}, 0o644))
	return path
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func dests(jobs []Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Dest
	}
	return out
}

func formatsOf(jobs []Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Format
	}
	return out
}
