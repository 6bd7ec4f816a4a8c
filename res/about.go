package res

// AboutContent contains the Markdown content for the About dialog.
// This is maintained separately for easy updates.
const AboutContent = `Grup Yorum şarkılarını çalan küçük bir müzik çalar.

**Özellikler:**
- Karıştırma ve tekrar (kapalı, tümü, tek)
- Kaldığı yerden devam eden şarkılar
- Türkçe karakterlere duyarlı arama ve sıralama
- Favoriler
`
