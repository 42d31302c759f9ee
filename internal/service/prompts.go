package service

import (
	"fmt"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
)

// chatSystemInstruction is the persona for the chat assistant. The
// product voice is Indonesian; the assistant answers in the user's
// language when asked.
const chatSystemInstruction = `Kamu adalah Glowy, asisten kecantikan virtual (beauty bestie) untuk Glowyze.
Gayamu ramah, suportif, dan sangat paham tentang dermatologi estetika.

TUGASMU:
1. Bantu pengguna memahami kondisi kulit mereka berdasarkan data profil atau keluhan.
2. Rekomendasikan bahan aktif (ingredients) yang tepat, bukan hanya merek.
3. Berikan saran rutinitas CTMP (Cleanse, Tone, Moisturize, Protect).
4. Berikan edukasi tentang gaya hidup sehat untuk kulit.
5. SELALU berikan disclaimer bahwa kamu adalah AI, bukan pengganti Dermatolog jika ada masalah serius.

Gunakan Bahasa Indonesia yang hangat. Tambahkan emoji sesekali ✨.`

// visionPrompt instructs the model to return the analysis as raw JSON
// with no markdown fences.
const visionPrompt = `Analisis foto wajah ini sebagai AI Glowy (pakar AI kecantikan).
Tugasmu adalah melakukan deteksi visual terhadap kondisi kulit.

WAJIB MEMBERIKAN RESPON DALAM FORMAT JSON MURNI:
{
  "overallScore": number (berikan nilai 0-100, 100 adalah kulit sangat sehat),
  "metrics": {
    "acne": number (0-100 tingkat keparahan jerawat),
    "wrinkles": number (0-100 tingkat keparahan kerutan),
    "pigmentation": number (0-100 tingkat keparahan noda/pigmentasi),
    "texture": number (0-100 tingkat ketidakrataan tekstur)
  },
  "summary": "Berikan narasi detail dalam Bahasa Indonesia. Gunakan Markdown untuk formatting seperti **bold** untuk penekanan. Berikan tips konkret dan 3 hero ingredients yang disarankan."
}

PENTING: JANGAN sertakan kata-kata pembuka atau penutup. JANGAN gunakan block code markdown. Berikan JSON mentah saja.`

// chatFallbackReply is appended as the model turn when the provider
// call fails; the send operation still succeeds.
const chatFallbackReply = "Sinyal Glowy lagi kurang stabil nih bestie, coba lagi ya! 🌸"

// emptyReplyFallback covers a successful call that returned no text
const emptyReplyFallback = "Duh, Glowy lagi ngelamun sebentar. Bisa ulangi? ✨"

// defaultAnalysisSummary fills an otherwise valid analysis payload that
// came back without a summary.
const defaultAnalysisSummary = "Analisis visual selesai. Tetap semangat merawat kulit ya!"

// buildChatSystemPrompt appends the user's profile context to the persona
func buildChatSystemPrompt(profile *model.Profile) string {
	if profile == nil {
		return chatSystemInstruction
	}
	return chatSystemInstruction + fmt.Sprintf(
		"\n\nKonteks Pengguna: Nama %s, Tipe Kulit %s, Fokus %s stress.",
		profile.Name, profile.SkinType, profile.StressLevel,
	)
}

// welcomeMessage returns the canned greeting that opens every new
// conversation. Welcome-only transcripts are never persisted.
func welcomeMessage(profile *model.Profile) string {
	name := ""
	lang := model.LanguageIndonesian
	if profile != nil {
		name = profile.Name
		lang = profile.Language
	}

	if lang == model.LanguageEnglish {
		if name == "" {
			return "Hi! I'm Glowy, your beauty bestie! ✨🌸 I'm here to talk skin, skincare ingredients, and your CTMP routine. How is your skin feeling today?"
		}
		return fmt.Sprintf("Hi %s! I'm Glowy, your beauty bestie! ✨🌸 I'm here to talk skin, skincare ingredients, and your CTMP routine. How is your skin feeling today?", name)
	}

	if name == "" {
		return "Hai! Aku Glowy, beauty bestie kamu! ✨🌸 Aku siap bantu kamu curhat soal kulit, bahas skincare ingredients, atau atur rutinitas CTMP. Hari ini kulit kamu lagi gimana?"
	}
	return fmt.Sprintf("Hai %s! Aku Glowy, beauty bestie kamu! ✨🌸 Aku siap bantu kamu curhat soal kulit, bahas skincare ingredients, atau atur rutinitas CTMP. Hari ini kulit kamu lagi gimana?", name)
}
