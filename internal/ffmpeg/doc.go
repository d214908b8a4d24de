// Package ffmpeg builds and executes the per-job ffmpeg command.
//
// Files:
//   - codec.go: closed destination-extension → encoder table
//   - builder.go: Options, Build (pure argv construction), FormatCommand
//   - executor.go: Execute (run, capture stdout/stderr, optional tee)
//   - errors.go: Classify (stderr → one-line operator hint)
//
// Every command follows one skeleton:
//
//	<ffmpeg> -hide_banner -nostdin -loglevel error (-y|-n) -i <src>
//	         [-af loudnorm=…] [-c:a <encoder>] [-b:a <rate>] [-ar <hz>] [-ac <n>] <dst>
package ffmpeg
