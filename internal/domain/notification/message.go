package notification

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/xvolv/tenant/internal/domain/calendar"
)

// Language is the landlord's message language preference.
type Language string

const (
	LangEnglish Language = "en"
	LangAmharic Language = "am"
)

// ParseLanguage normalizes a stored preference, falling back to English.
func ParseLanguage(s string) Language {
	if Language(s) == LangAmharic {
		return LangAmharic
	}
	return LangEnglish
}

// Ethiopian month names by language, including the 13th month.
var monthNames = map[Language][13]string{
	LangEnglish: {
		"Meskerem", "Tikimt", "Hidar", "Tahsas", "Tir", "Yekatit",
		"Megabit", "Miyazia", "Ginbot", "Sene", "Hamle", "Nehase", "Pagume",
	},
	LangAmharic: {
		"መስከረም", "ጥቅምት", "ኅዳር", "ታኅሣሥ", "ጥር", "የካቲት",
		"መጋቢት", "ሚያዝያ", "ግንቦት", "ሰኔ", "ሐምሌ", "ነሐሴ", "ጳጉሜ",
	},
}

// MessagePayload carries the values the templates interpolate. Date is the
// due date for due/overdue kinds, the move-in date for move-in kinds and the
// paid period for confirmations. Days is the due-soon days-ahead count or
// the overdue elapsed-day count.
type MessagePayload struct {
	RoomName   string
	TenantName string
	Amount     decimal.Decimal
	Date       calendar.EthiopianDate
	Days       int
}

// Render produces the localized message text for the kind. Output uses
// Telegram Markdown emphasis, matching the gateway's parse mode.
func Render(kind Kind, lang Language, p MessagePayload) string {
	if _, ok := monthNames[lang]; !ok {
		lang = LangEnglish
	}
	when := fmt.Sprintf("%s %d, %d", monthNames[lang][p.Date.Month], p.Date.Day, p.Date.Year)
	if lang == LangAmharic {
		when = fmt.Sprintf("%s %d ቀን %d", monthNames[lang][p.Date.Month], p.Date.Day, p.Date.Year)
	}
	amount := p.Amount.StringFixed(0)

	switch lang {
	case LangAmharic:
		return renderAmharic(kind, p, when, amount)
	default:
		return renderEnglish(kind, p, when, amount)
	}
}

func renderEnglish(kind Kind, p MessagePayload, when, amount string) string {
	switch kind {
	case KindDueSoon:
		return fmt.Sprintf("🏠 *RENT DUE REMINDER*\n\n"+
			"📅 *Due: %s (%d days)*\n🏢 *Room: %s*\n👤 *Tenant: %s*\n💰 *Amount: %s ETB*\n\n"+
			"🔔 *Status: PENDING*\n\nPlease remind the tenant to pay on time.",
			when, p.Days, p.RoomName, p.TenantName, amount)
	case KindDueToday:
		return fmt.Sprintf("🏠 *RENT DUE TODAY*\n\n"+
			"📅 *Due: %s*\n🏢 *Room: %s*\n👤 *Tenant: %s*\n💰 *Amount: %s ETB*\n\n"+
			"🔔 *Status: PENDING*\n\nRent is due today. Please follow up with the tenant.",
			when, p.RoomName, p.TenantName, amount)
	case KindOverdue:
		return fmt.Sprintf("⚠️ *OVERDUE RENT PAYMENT*\n\n"+
			"📅 *Was Due: %s*\n🔴 *Overdue by: %d days*\n🏢 *Room: %s*\n👤 *Tenant: %s*\n💰 *Amount: %s ETB*\n\n"+
			"🔔 *Status: OVERDUE*\n\nImmediate action required! Please contact the tenant.",
			when, p.Days, p.RoomName, p.TenantName, amount)
	case KindPaid:
		return fmt.Sprintf("✅ *PAYMENT RECEIVED*\n\n"+
			"📅 *Paid: %s*\n🏢 *Room: %s*\n👤 *Tenant: %s*\n💰 *Amount: %s ETB*\n\n"+
			"🔔 *Status: PAID*\n\nThank you! Payment recorded successfully.",
			when, p.RoomName, p.TenantName, amount)
	case KindMoveInToday:
		return fmt.Sprintf("🔑 *MOVE-IN TODAY*\n\n"+
			"📅 *Date: %s*\n🏢 *Room: %s*\n👤 *Tenant: %s*\n\n"+
			"Please prepare the room and hand over the keys.",
			when, p.RoomName, p.TenantName)
	case KindMoveInTomorrow:
		return fmt.Sprintf("🔑 *MOVE-IN TOMORROW*\n\n"+
			"📅 *Date: %s*\n🏢 *Room: %s*\n👤 *Tenant: %s*\n\n"+
			"A new tenant moves in tomorrow. Please have the room ready.",
			when, p.RoomName, p.TenantName)
	default:
		return ""
	}
}

func renderAmharic(kind Kind, p MessagePayload, when, amount string) string {
	switch kind {
	case KindDueSoon:
		return fmt.Sprintf("🏠 *የቤት ክፍያ ማስታወቂያ*\n\n"+
			"📅 *የሚከፈልበት: %s (%d ቀናት)*\n🏢 *ክፍል: %s*\n👤 *ተከራይ: %s*\n💰 *መጠን: %s ብር*\n\n"+
			"🔔 *ሁኔታ: ገና አልተከፈለም*\n\nእባክዎ ተከራዩን በጊዜ መክፈል እንዲሞክሩ ያስተምሩ።",
			when, p.Days, p.RoomName, p.TenantName, amount)
	case KindDueToday:
		return fmt.Sprintf("🏠 *ዛሬ የሚከፈል የቤት ክፍያ*\n\n"+
			"📅 *የሚከፈልበት: %s*\n🏢 *ክፍል: %s*\n👤 *ተከራይ: %s*\n💰 *መጠን: %s ብር*\n\n"+
			"🔔 *ሁኔታ: ገና አልተከፈለም*\n\nክፍያው ዛሬ ነው። እባክዎ ተከራዩን ያነጋግሩ።",
			when, p.RoomName, p.TenantName, amount)
	case KindOverdue:
		return fmt.Sprintf("⚠️ *የዘገየ የቤት ክፍያ*\n\n"+
			"📅 *መከፈል ነበረበት: %s*\n🔴 *በጊዜ ያለፈ: %d ቀናት*\n🏢 *ክፍል: %s*\n👤 *ተከራይ: %s*\n💰 *መጠን: %s ብር*\n\n"+
			"🔔 *ሁኔታ: ዘግይቷል*\n\nአስቸኳይ እርምጃ ያስፈልጋል! እባክዎ ተከራዩን ያነጋግሩ።",
			when, p.Days, p.RoomName, p.TenantName, amount)
	case KindPaid:
		return fmt.Sprintf("✅ *ክፍያ ተቀበለ*\n\n"+
			"📅 *ተከፈለ: %s*\n🏢 *ክፍል: %s*\n👤 *ተከራይ: %s*\n💰 *መጠን: %s ብር*\n\n"+
			"🔔 *ሁኔታ: ተከፈለ*\n\nእናመሰግናለን! ክፍያው በተሳካ ሁኔታ ተመዝግቧል።",
			when, p.RoomName, p.TenantName, amount)
	case KindMoveInToday:
		return fmt.Sprintf("🔑 *ዛሬ የሚገባ ተከራይ*\n\n"+
			"📅 *ቀን: %s*\n🏢 *ክፍል: %s*\n👤 *ተከራይ: %s*\n\n"+
			"እባክዎ ክፍሉን ያዘጋጁ እና ቁልፉን ያስረክቡ።",
			when, p.RoomName, p.TenantName)
	case KindMoveInTomorrow:
		return fmt.Sprintf("🔑 *ነገ የሚገባ ተከራይ*\n\n"+
			"📅 *ቀን: %s*\n🏢 *ክፍል: %s*\n👤 *ተከራይ: %s*\n\n"+
			"አዲስ ተከራይ ነገ ይገባል። እባክዎ ክፍሉን ያዘጋጁ።",
			when, p.RoomName, p.TenantName)
	default:
		return ""
	}
}
