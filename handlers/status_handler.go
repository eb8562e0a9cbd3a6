package handlers

import (
	"fmt"
	"runtime"
	"time"

	"automod-bot/bot"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

func StatusHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	// Get CPU info
	cpuCount, _ := cpu.Counts(true)
	cpuPercent, _ := cpu.Percent(0, false)
	cpuUsage := 0.0
	if len(cpuPercent) > 0 {
		cpuUsage = cpuPercent[0]
	}

	// Get memory info
	vm, _ := mem.VirtualMemory()

	// Get host info
	hostInfo, _ := host.Info()

	uptime := time.Since(b.StartTime).Round(time.Second)

	embed := &discordgo.MessageEmbed{
		Title: "AutoMod Status",
		Color: 0x5865F2, // Discord Blurple
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 OS", Value: fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion), Inline: true},
			{Name: "🐹 Go Version", Value: runtime.Version(), Inline: true},
			{Name: "⏳ Uptime", Value: uptime.String(), Inline: true},
			{Name: "🔼 CPU Count", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
			{Name: "🔥 CPU Usage", Value: fmt.Sprintf("%.1f%%", cpuUsage), Inline: true},
			{Name: "🧠 Memory", Value: fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024), Inline: true},
			{Name: "⏱️ WebSocket Latency", Value: s.HeartbeatLatency().String(), Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "🔎 Messages Scanned", Value: fmt.Sprintf("%d", b.Orchestrator.MessagesScanned()), Inline: true},
			{Name: "🚨 Violations", Value: fmt.Sprintf("%d", b.Orchestrator.ViolationsSeen()), Inline: true},
			{Name: "⛔ Active Suspensions", Value: fmt.Sprintf("%d", b.Orchestrator.ActiveSuspensions()), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("AutoMod Monitor・%s", time.Now().Format("15:04")),
		},
	}

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}
