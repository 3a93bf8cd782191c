// Package launch は同時押しに割り当てられた外部コマンドを起動する。
package launch

import (
	"log/slog"
	"os/exec"
	"strings"
)

// Launcher はコマンドを切り離して起動する
type Launcher struct {
	log   *slog.Logger
	start func(cmd *exec.Cmd) error
}

// New は Launcher を作成する
func New(logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{log: logger, start: (*exec.Cmd).Start}
}

// Launch はコマンドラインを空白で分割して起動する。
// 起動と終了待ちは別のゴルーチンで行い、結果はログに出すだけで呼び出し元には返さない。
func (l *Launcher) Launch(command string) {
	cmd := Command(command)
	if cmd == nil {
		l.log.Warn("空のコマンドは起動できません")
		return
	}

	go func() {
		if err := l.start(cmd); err != nil {
			l.log.Warn("コマンドの起動に失敗しました", "command", command, "error", err)
			return
		}
		l.log.Debug("コマンドを起動しました", "command", command, "pid", cmd.Process.Pid)

		// ゾンビプロセスを残さないよう終了を待つ
		if err := cmd.Wait(); err != nil {
			l.log.Debug("コマンドが異常終了しました", "command", command, "error", err)
		}
	}()
}

// Command はコマンドラインから exec.Cmd を組み立てる。
// 空白のみの場合は nil を返す。
func Command(command string) *exec.Cmd {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil
	}
	return exec.Command(args[0], args[1:]...)
}
