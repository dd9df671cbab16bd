package sandbox

import "regexp"

// denyPattern matches dynamic evaluation, timers, worker spawning, dynamic
// import and module loading. It works on raw text: it can break legitimate
// code that uses these words (a column named "process", say) and it misses
// obfuscated access like rows["constructor"]["constructor"].
var denyPattern = regexp.MustCompile(
	`\b(eval|Function|setTimeout|setInterval|setImmediate|queueMicrotask|Worker|SharedWorker|import|require|process|child_process)\b`)

// Denylist removes denied tokens from src.
func Denylist(src string) string {
	return denyPattern.ReplaceAllString(src, "")
}
