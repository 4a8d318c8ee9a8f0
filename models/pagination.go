package models

// Görüntüleme ayarları sabitleri.
const (
	// ResetInitialDisplay ve ResetLoadMoreCount, ayar diyaloğundaki
	// "varsayılana dön" aksiyonunun yazdığı değerlerdir.
	ResetInitialDisplay = 6
	ResetLoadMoreCount  = 3

	// DisplayInputMax, serbest sayı girişinde önerilen üst sınır.
	// Sadece form ipucudur, sunucu tarafında uygulanmaz.
	DisplayInputMax = 100
)

// DisplayQuickPicks, ayar diyaloğundaki hızlı seçim butonları.
var DisplayQuickPicks = []int{3, 6, 9, 12}

// Page, bir görünüm için hesaplanmış sayfalama sonucu.
type Page struct {
	Projects     []Project `json:"projects"`
	Total        int       `json:"total"`
	DisplayCount int       `json:"displayCount"`
	HasMore      bool      `json:"hasMore"`
	Remaining    int       `json:"remaining"`
	EditMode     bool      `json:"editMode"`
}

// Paginate, görünür projeleri hesaplar.
//
// Edit modunda sayfalama tamamen kapalıdır, bütün liste görünür.
// Aksi halde ilk displayCount kadarı görünür. Alttaki liste değişmez,
// dönen slice all ile aynı backing array'i paylaşabilir.
func Paginate(all []Project, displayCount int, editMode bool) Page {
	total := len(all)
	page := Page{
		Total:        total,
		DisplayCount: displayCount,
		EditMode:     editMode,
	}

	if editMode {
		page.Projects = all
		return page
	}

	n := min(max(displayCount, 0), total)
	page.Projects = all[:n]
	page.HasMore = total > displayCount
	if page.HasMore {
		page.Remaining = total - displayCount
	}
	return page
}

// NextDisplayCount, "daha fazla göster" sonrası görünür sayıyı döner.
// Sonuç hiçbir zaman total'i aşmaz.
func NextDisplayCount(current, step, total int) int {
	return min(current+step, total)
}

// NormalizeCount, görüntüleme ayarlarını en az 1'e yükseltir.
// Aralık dışı değerler reddedilmez, sadece tabana çekilir.
func NormalizeCount(v int) int {
	return max(1, v)
}
