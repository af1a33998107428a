package testutil

/// WithStandardLibraryData queues a small mixed dataset: two bookmarks,
// two notes, a prompt, and a reading list holding one bookmark.
func (b *Builder) WithStandardLibraryData() *Builder {
	return b.
		WithBookmark("bm-1", "Go blog", URL("https://go.dev/blog"), Tags("go"), Pinned()).
		WithBookmark("bm-2", "SQLite docs", URL("https://sqlite.org/docs.html"), Tags("db", "reference")).
		WithNote("note-1", "wal checkpointing", Content("WAL files checkpoint on close.\nMore detail here."), Tags("db")).
		WithNote("note-2", "shopping", Content("milk\neggs")).
		WithPrompt("prompt-1", "summarize article", Content("Summarize the following article:"), Tags("go")).
		WithList("list-1", "reading", "bm-1")
}
