// Package cli wires the cobra command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"newstrack/internal/chat"
	"newstrack/internal/config"
	"newstrack/internal/display"
	"newstrack/internal/ledger"
	"newstrack/internal/logger"
	"newstrack/internal/mail"
	"newstrack/internal/market"
	"newstrack/internal/pipeline"
	"newstrack/internal/track"
)

const version = "1.0.0"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "newstrack",
		Short: "财经新闻抓取、LLM 分析与个股表现追踪",
		Long: `newstrack 持续抓取财经快讯，调用大模型判断新闻对个股的利好利空，
把结果写入本地账本并追踪其后几个交易日的实际表现。`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug || cfg.Debug {
				logger.SetDebug(true)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newRunCmd(cfg))
	rootCmd.AddCommand(newExportCmd(cfg))
	rootCmd.AddCommand(newPerfCmd(cfg))
	rootCmd.AddCommand(newReportCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

// newAnalyzeCmd runs one fetch-analyze pass and exits.
func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "抓取一轮新闻并分析",
		RunE: func(cmd *cobra.Command, args []string) error {
			telegraph, _ := cmd.Flags().GetBool("telegraph")

			ctx := cmd.Context()
			p, err := pipeline.New(ctx, cfg, telegraph)
			if err != nil {
				return err
			}
			summary, err := p.RunOnce(ctx)
			if err != nil {
				return err
			}
			fmt.Println(display.RenderRunSummary(summary))
			return nil
		},
	}

	cmd.Flags().Bool("telegraph", false, "直接走电报接口而不是 RSS 源")
	return cmd
}

// newRunCmd loops the pipeline at the configured interval.
func newRunCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "按固定间隔持续运行分析流水线",
		RunE: func(cmd *cobra.Command, args []string) error {
			telegraph, _ := cmd.Flags().GetBool("telegraph")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p, err := pipeline.New(ctx, cfg, telegraph)
			if err != nil {
				return err
			}
			logger.Log.WithField("interval", cfg.RunInterval.String()).Info("流水线启动")
			if err := ignoreCanceled(p.RunForever(ctx)); err != nil {
				return err
			}
			logger.Log.Info("收到退出信号，流水线停止")
			return nil
		},
	}

	cmd.Flags().Bool("telegraph", false, "直接走电报接口而不是 RSS 源")
	return cmd
}

// ignoreCanceled swallows context cancellation so a signal-driven
// shutdown exits cleanly.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// newExportCmd replays the analysis ledger into the tracking table.
func newExportCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "把分析账本导出为个股追踪表",
		RunE: func(cmd *cobra.Command, args []string) error {
			records := ledger.NewAnalysisLedger(cfg.AnalysisPath()).Load()
			if len(records) == 0 {
				fmt.Println("分析账本为空，没有可导出的记录")
				return nil
			}

			added, err := track.NewTable(cfg.TrackPath()).AppendRecords(records)
			if err != nil {
				return err
			}
			fmt.Printf("新增 %d 行，追踪表: %s\n", added, cfg.TrackPath())
			return nil
		},
	}
}

// newPerfCmd backfills realized performance into the tracking table.
func newPerfCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "perf",
		Short: "回填追踪表中已到期的股价表现",
		RunE: func(cmd *cobra.Command, args []string) error {
			table := track.NewTable(cfg.TrackPath())
			rows, err := table.Load()
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("追踪表为空")
				return nil
			}

			updated := market.NewUpdater().Update(rows)
			if updated == 0 {
				fmt.Println("没有需要回填的行")
				return nil
			}
			if err := table.Save(rows); err != nil {
				return err
			}
			fmt.Printf("回填了 %d 行\n", updated)
			return nil
		},
	}
}

// newReportCmd prints the latest analyses, optionally delivering them
// by mail or chat instead of the terminal.
func newReportCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "查看或推送最近的分析结果",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			toMail, _ := cmd.Flags().GetBool("mail")
			toChat, _ := cmd.Flags().GetBool("chat")

			records := ledger.NewAnalysisLedger(cfg.AnalysisPath()).Latest(limit)
			if len(records) == 0 {
				fmt.Println("还没有分析记录")
				return nil
			}

			if toMail {
				if err := mail.NewSender(cfg).SendReport(records); err != nil {
					return err
				}
			}
			if toChat {
				if err := chat.NewPusher(cfg).Push(records); err != nil {
					return err
				}
			}
			if !toMail && !toChat {
				for _, rec := range records {
					fmt.Println(display.RenderRecord(rec))
				}
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "包含的记录条数")
	cmd.Flags().Bool("mail", false, "以邮件日报形式发送")
	cmd.Flags().Bool("chat", false, "推送到消息桥接")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("newstrack v%s\n", version)
		},
	}
}
