package knowledge

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caremesh/caremesh/core"
)

// LoadDocuments reads a JSON corpus file (an array of Document objects).
func LoadDocuments(path string) ([]Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus %s: %w", path, err)
	}
	var docs []Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode corpus %s: %w", path, err)
	}
	return docs, nil
}

// seedCorpus ships with the agent so a fresh deployment answers common
// questions without any corpus provisioning.
var seedCorpus = []Document{
	{
		ArticleID: "faq-001",
		Title:     "How do I reset my password?",
		Content:   "To reset your password, open the login page and select Forgot Password. We will email you a reset link valid for 24 hours. If you do not receive the email, check your spam folder or contact support.",
		Language:  core.LanguageEnglish,
		Category:  "account",
	},
	{
		ArticleID: "faq-002",
		Title:     "Understanding your monthly bill",
		Content:   "Your monthly invoice lists the base subscription fee, usage charges, and any one-time adjustments. Billing runs on the first of each month. Disputed charges can be reviewed from the Billing section of your account.",
		Language:  core.LanguageEnglish,
		Category:  "billing",
	},
	{
		ArticleID: "faq-003",
		Title:     "How to request a refund",
		Content:   "Refunds are available within 30 days of purchase. Submit a refund request from your order history and include the order number. Approved refunds are returned to the original payment method within 5-7 business days.",
		Language:  core.LanguageEnglish,
		Category:  "billing",
	},
	{
		ArticleID: "faq-004",
		Title:     "Tracking your order",
		Content:   "Once your order ships you will receive a tracking number by email. Orders typically arrive within 3-5 business days. You can also view shipment status under Orders in your account.",
		Language:  core.LanguageEnglish,
		Category:  "orders",
	},
	{
		ArticleID: "faq-005",
		Title:     "Troubleshooting connection errors",
		Content:   "If the application reports a connection error, first verify your network is online, then clear the local cache and restart the application. Persistent errors with code NET-15 indicate a firewall blocking outbound traffic.",
		Language:  core.LanguageEnglish,
		Category:  "technical",
	},
	{
		ArticleID: "faq-006",
		Title:     "How to cancel your subscription",
		Content:   "You can cancel your subscription at any time from Account Settings. Cancellation takes effect at the end of the current billing period and no further charges are made. Your data remains available for 90 days.",
		Language:  core.LanguageEnglish,
		Category:  "account",
	},
	{
		ArticleID: "faq-007",
		Title:     "Updating payment methods",
		Content:   "To update the card on file, open Billing, select Payment Methods, and add the new card before removing the old one. The next invoice is charged to the default payment method.",
		Language:  core.LanguageEnglish,
		Category:  "billing",
	},
	{
		ArticleID: "faq-008",
		Title:     "Plan features and pricing",
		Content:   "We offer Starter, Professional, and Enterprise plans. Professional adds priority support and API access; Enterprise adds dedicated infrastructure and a service level agreement. Upgrades apply immediately with prorated billing.",
		Language:  core.LanguageEnglish,
		Category:  "product",
	},
	{
		ArticleID: "faq-009",
		Title:     "إعادة تعيين كلمة المرور",
		Content:   "لإعادة تعيين كلمة المرور، افتح صفحة تسجيل الدخول واختر نسيت كلمة المرور. سنرسل لك رابط إعادة التعيين عبر البريد الإلكتروني صالحاً لمدة 24 ساعة.",
		Language:  core.LanguageArabic,
		Category:  "account",
	},
	{
		ArticleID: "faq-010",
		Title:     "فهم فاتورتك الشهرية",
		Content:   "تتضمن فاتورتك الشهرية رسوم الاشتراك الأساسية ورسوم الاستخدام وأي تعديلات لمرة واحدة. تصدر الفواتير في اليوم الأول من كل شهر.",
		Language:  core.LanguageArabic,
		Category:  "billing",
	},
}
