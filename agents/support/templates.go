package support

import (
	"github.com/caremesh/caremesh/core"
)

// responseTemplates maps intent to per-language draft responses.
var responseTemplates = map[string]map[core.Language]string{
	"billing_inquiry": {
		core.LanguageEnglish: "I understand you have a billing question. Let me look into your account details and provide clarification.",
		core.LanguageArabic:  "أفهم أن لديك سؤال حول الفوترة. دعني أراجع تفاصيل حسابك وأقدم لك التوضيح.",
	},
	"technical_support": {
		core.LanguageEnglish: "I'm sorry you're experiencing technical difficulties. Let me help you troubleshoot this issue.",
		core.LanguageArabic:  "أنا آسف لأنك تواجه صعوبات تقنية. دعني أساعدك في حل هذه المشكلة.",
	},
	"account_management": {
		core.LanguageEnglish: "I can help you with your account settings. Let me guide you through the process.",
		core.LanguageArabic:  "يمكنني مساعدتك في إعدادات حسابك. دعني أرشدك خلال العملية.",
	},
	"complaint": {
		core.LanguageEnglish: "I sincerely apologize for the inconvenience. Your concern is very important to us, and I'll do my best to resolve it.",
		core.LanguageArabic:  "أعتذر بشدة عن الإزعاج. قلقك مهم جداً بالنسبة لنا، وسأبذل قصارى جهدي لحله.",
	},
	"escalation_request": {
		core.LanguageEnglish: "I understand you'd like to speak with a human agent. Let me connect you right away.",
		core.LanguageArabic:  "أفهم أنك ترغب في التحدث مع وكيل بشري. دعني أوصلك على الفور.",
	},
	"order_status": {
		core.LanguageEnglish: "Let me check the status of your order for you right away.",
		core.LanguageArabic:  "دعني أتحقق من حالة طلبك فوراً.",
	},
	"cancellation": {
		core.LanguageEnglish: "I understand you'd like to cancel. Before proceeding, may I ask if there's anything we can do to improve your experience?",
		core.LanguageArabic:  "أفهم أنك ترغب في الإلغاء. قبل المتابعة، هل يمكنني أن أسأل إذا كان هناك شيء يمكننا فعله لتحسين تجربتك؟",
	},
	"refund_request": {
		core.LanguageEnglish: "I understand you'd like a refund. Let me review your order and process this for you.",
		core.LanguageArabic:  "أفهم أنك ترغب في استرداد المبلغ. دعني أراجع طلبك وأعالج هذا الأمر لك.",
	},
	"greeting": {
		core.LanguageEnglish: "Hello! Welcome to our customer support. How can I assist you today?",
		core.LanguageArabic:  "مرحباً! أهلاً بك في خدمة العملاء. كيف يمكنني مساعدتك اليوم؟",
	},
	"farewell": {
		core.LanguageEnglish: "Thank you for contacting us! If you need anything else, don't hesitate to reach out. Have a great day!",
		core.LanguageArabic:  "شكراً لتواصلك معنا! إذا احتجت أي شيء آخر، لا تتردد في التواصل. أتمنى لك يوماً سعيداً!",
	},
	"general_inquiry": {
		core.LanguageEnglish: "Thank you for reaching out. I'll do my best to help answer your question.",
		core.LanguageArabic:  "شكراً لتواصلك. سأبذل قصارى جهدي للمساعدة في الإجابة على سؤالك.",
	},
	"product_information": {
		core.LanguageEnglish: "I'd be happy to provide information about our products. Let me find the details for you.",
		core.LanguageArabic:  "يسعدني تقديم معلومات حول منتجاتنا. دعني أجد التفاصيل لك.",
	},
	"feedback": {
		core.LanguageEnglish: "Thank you for sharing your feedback with us. We truly value your input and will use it to improve our services.",
		core.LanguageArabic:  "شكراً لمشاركتك ملاحظاتك معنا. نحن نقدر حقاً مساهمتك وسنستخدمها لتحسين خدماتنا.",
	},
}

// responseFor returns the template for the intent/language pair, falling
// back to general_inquiry and then English.
func responseFor(intent string, language core.Language) string {
	templates, ok := responseTemplates[intent]
	if !ok {
		templates = responseTemplates["general_inquiry"]
	}
	if text, ok := templates[language]; ok {
		return text
	}
	return templates[core.LanguageEnglish]
}
