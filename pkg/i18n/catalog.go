package i18n

// Key identifies a translatable string.
type Key string

const (
	AppTitle         Key = "appTitle"
	All              Key = "all"
	Hide             Key = "hide"
	Show             Key = "show"
	Loading          Key = "loading"
	Error            Key = "error"
	Pending          Key = "pending"
	Done             Key = "done"
	Progress         Key = "progress"
	Completed        Key = "completed"
	NoTitle          Key = "noTitle"
	ScrollToLoad     Key = "scrollToLoad"
	NoTasks          Key = "noTasks"
	AllDone          Key = "allDone"
	HashtagsLabel    Key = "hashtagsLabel"
	NoHashtags       Key = "noHashtags"
	Copied           Key = "copied"
	CopyText         Key = "copyText"
	GoPost           Key = "goPost"
	MarkDone         Key = "markDone"
	AchievementTitle Key = "achievementTitle"
	AchievementDesc  Key = "achievementDesc"
	DownloadFrame    Key = "downloadFrame"
	ShareToX         Key = "shareToX"
	GenerateCaption  Key = "generateCaption"
	Regenerate       Key = "regenerate"
	GeneratedMessage Key = "generatedMessage"
	CopyMessageOnly  Key = "copyMessageOnly"
	CopyHashtagsOnly Key = "copyHashtagsOnly"
	CopyBoth         Key = "copyBoth"
	CopiedMessage    Key = "copiedMessage"
	CopiedHashtags   Key = "copiedHashtags"
	CopiedBoth       Key = "copiedBoth"
	NotMarkedDone    Key = "notMarkedDone"
)

var catalog = map[Language]map[Key]string{
	Thai: {
		AppTitle:         "✨ Film x Loewe Mission",
		All:              "ทั้งหมด",
		Hide:             "✓ ซ่อน",
		Show:             "○ แสดง",
		Loading:          "กำลังโหลดข้อมูล...",
		Error:            "ไม่สามารถโหลดข้อมูลได้ กรุณาตรวจสอบ Google Sheet URL",
		Pending:          "รอทำ",
		Done:             "เสร็จ",
		Progress:         "progress",
		Completed:        "เสร็จแล้ว",
		NoTitle:          "ไม่มีชื่อเรื่อง",
		ScrollToLoad:     "เลื่อนเพื่อโหลดเพิ่ม...",
		NoTasks:          "ยังไม่มีรายการ",
		AllDone:          "ทำครบหมดแล้ว!",
		HashtagsLabel:    "📝 Hashtags ที่ต้องใช้:",
		NoHashtags:       "ไม่มี Hashtags",
		Copied:           "✓ คัดลอกแล้ว!",
		CopyText:         "📋 คัดลอกข้อความ",
		GoPost:           "🚀 ไปโพสต์เลย!",
		MarkDone:         "✓ ทำเสร็จแล้ว",
		AchievementTitle: "นักปั่นเอนเกจตัวจริง!",
		AchievementDesc:  "ขอแสดงความยินดี! คุณทำ Mission ครบแล้ว 🎉",
		DownloadFrame:    "⬇️ ดาวน์โหลดกรอบรูป",
		ShareToX:         "📱 แชร์ไป X",
		GenerateCaption:  "✨ สร้างข้อความ",
		Regenerate:       "🔄",
		GeneratedMessage: "ข้อความที่สร้าง:",
		CopyMessageOnly:  "📋 คัดลอกข้อความ",
		CopyHashtagsOnly: "# คัดลอก Hashtags",
		CopyBoth:         "📋 คัดลอกทั้งหมด",
		CopiedMessage:    "✓ คัดลอกข้อความแล้ว!",
		CopiedHashtags:   "✓ คัดลอก Hashtags แล้ว!",
		CopiedBoth:       "✓ คัดลอกทั้งหมดแล้ว!",
		NotMarkedDone:    "ยังไม่ได้ทำเครื่องหมายว่าเสร็จ:",
	},
	English: {
		AppTitle:         "✨ Film x Loewe Mission",
		All:              "All",
		Hide:             "✓ Hide",
		Show:             "○ Show",
		Loading:          "Loading...",
		Error:            "Failed to load data. Please check Google Sheet URL",
		Pending:          "Pending",
		Done:             "Done",
		Progress:         "progress",
		Completed:        "Completed",
		NoTitle:          "No title",
		ScrollToLoad:     "Scroll to load more...",
		NoTasks:          "No tasks yet",
		AllDone:          "All done!",
		HashtagsLabel:    "📝 Hashtags to use:",
		NoHashtags:       "No hashtags",
		Copied:           "✓ Copied!",
		CopyText:         "📋 Copy text",
		GoPost:           "🚀 Go post!",
		MarkDone:         "✓ Mark as done",
		AchievementTitle: "True Engagement Champion!",
		AchievementDesc:  "Congratulations! You completed the Mission 🎉",
		DownloadFrame:    "⬇️ Download Frame",
		ShareToX:         "📱 Share to X",
		GenerateCaption:  "✨ Generate Caption",
		Regenerate:       "🔄",
		GeneratedMessage: "Generated Message:",
		CopyMessageOnly:  "📋 Copy Message",
		CopyHashtagsOnly: "# Copy Hashtags",
		CopyBoth:         "📋 Copy All",
		CopiedMessage:    "✓ Message Copied!",
		CopiedHashtags:   "✓ Hashtags Copied!",
		CopiedBoth:       "✓ All Copied!",
		NotMarkedDone:    "Not marked done:",
	},
}
