// Command recommend 是笔记本推荐的命令行入口。
//
//	recommend [-config path] content_based <item_id>
//	recommend [-config path] collaborative <user_id>
//	recommend [-config path] hybrid <item_id> [user_id]
//	recommend [-config path] track_view <user_id> <item_id> [rating]
//	recommend [-config path] track_save <user_id> <item_id> [note]
//
// 成功时向 stdout 输出 JSON 数组，退出码 0；参数错误输出 {"error": ...}，退出码 1；
// 存储错误输出 {"error": ...}，退出码 2。日志写到 stderr。
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
