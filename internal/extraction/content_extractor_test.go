package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listPost = `<p>Bebeğiniz 6 aylık olduğunda ek gıdaya başlayabilirsiniz.</p>
<h3>Malzemeler</h3>
<ul>
<li>1/4 adet ince kıyılmış lahana</li>
<li>1 adet patates (küçük boy)</li>
<li>2 su bardağı su</li>
</ul>
<h3>Hazırlanışı</h3>
<p>1. Sebzeleri yıkayın.<br>
2. Tencereye alıp haşlayın.<br>
3. Blenderdan geçirin.</p>
<p><strong>Not:</strong> Tuz eklemeyin.</p>
<p><strong>Dyt. Ayşe Yılmaz'ın notu:</strong> Lahana gaz yapabilir, az miktarda başlayın.</p>
<p>Afiyet olsun!</p>
<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ" width="560"></iframe>`

func TestExtract_ListItemsAndNumberedSteps(t *testing.T) {
	extractor := NewContentExtractor(nil)

	got := extractor.Extract(listPost, "Lahanalı Patates Püresi")

	assert.Equal(t, []string{
		"1/4 adet ince kıyılmış lahana",
		"1 adet patates (küçük boy)",
		"2 su bardağı su",
	}, got.Ingredients)
	assert.Equal(t, []string{
		"Sebzeleri yıkayın.",
		"Tencereye alıp haşlayın.",
		"Blenderdan geçirin.",
	}, got.Instructions)
	assert.Equal(t, "Dyt.", got.ExpertTitle)
	assert.Equal(t, "Ayşe Yılmaz", got.ExpertName)
	assert.Equal(t, "Lahana gaz yapabilir, az miktarda başlayın.", got.ExpertNote)
	assert.Equal(t, "Not: Tuz eklemeyin.", got.SpecialNotes)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", got.VideoURL)
}

func TestExtract_BoldHeadingsAndBullets(t *testing.T) {
	html := `<p><strong>Gerekli Malzemeler:</strong></p>
<p>- 1 adet muz<br>- 2 yemek kaşığı yoğurt</p>
<p><strong>Yapılışı:</strong></p>
<p>Muzu çatalla ezin ve yoğurtla karıştırın.</p>
<p><iframe src="https://youtu.be/abcdefghijk"></iframe></p>`

	got := NewContentExtractor(nil).Extract(html, "Muzlu Yoğurt")

	assert.Equal(t, []string{"1 adet muz", "2 yemek kaşığı yoğurt"}, got.Ingredients)
	assert.Equal(t, []string{"Muzu çatalla ezin ve yoğurtla karıştırın."}, got.Instructions)
	assert.Equal(t, "https://www.youtube.com/watch?v=abcdefghijk", got.VideoURL)
	assert.Empty(t, got.ExpertName)
	assert.Empty(t, got.ExpertNote)
}

func TestExtract_DiacriticTolerantBareHeadings(t *testing.T) {
	html := "MALZEMELER\n* 1 adet elma\n* 1 tutam tarçın\nHAZIRLANISI\n* Elmayı rendeleyin.\n* Tarçını serpin."

	got := NewContentExtractor(nil).Extract(html, "Tarçınlı Elma")

	assert.Equal(t, []string{"1 adet elma", "1 tutam tarçın"}, got.Ingredients)
	assert.Equal(t, []string{"Elmayı rendeleyin.", "Tarçını serpin."}, got.Instructions)
}

func TestExtract_InlinePreparationHeading(t *testing.T) {
	html := `<h2>İçindekiler</h2><ul><li>1 adet armut</li></ul><p>Hazırlanışı: Armudu buharda pişirip ezin.</p>`

	got := NewContentExtractor(nil).Extract(html, "Armut Püresi")

	assert.Equal(t, []string{"1 adet armut"}, got.Ingredients)
	assert.Equal(t, []string{"Armudu buharda pişirip ezin."}, got.Instructions)
}

func TestExtract_ExpertNoteStopsAtNextHeading(t *testing.T) {
	html := `<h3>Yapılışı</h3><p>Karıştırın.</p>
<p>Uzm. Dyt. Zeynep Kaya'nın notu: <em>Bal</em> bir yaşından önce verilmemelidir.</p>
<h2>Benzer Tarifler</h2><p>Başka bir tarif</p>`

	got := NewContentExtractor(nil).Extract(html, "Ballı Süt")

	assert.Equal(t, "Uzm. Dyt.", got.ExpertTitle)
	assert.Equal(t, "Zeynep Kaya", got.ExpertName)
	assert.Equal(t, "Bal bir yaşından önce verilmemelidir.", got.ExpertNote)
	assert.Equal(t, []string{"Karıştırın."}, got.Instructions)
	assert.Empty(t, got.Ingredients)
}

func TestExtract_SpecialNotesInDocumentOrder(t *testing.T) {
	html := `<p>Uyarı: Sıcak servis etmeyin.</p><p>Bir paragraf.</p><p><b>Püf Noktası:</b> Önceden ıslatın.</p>`

	got := NewContentExtractor(nil).Extract(html, "")

	assert.Equal(t, "Uyarı: Sıcak servis etmeyin.\nPüf Noktası: Önceden ıslatın.", got.SpecialNotes)
}

func TestExtract_MissingSectionsAreEmpty(t *testing.T) {
	extractor := NewContentExtractor(nil)

	for _, html := range []string{"", "<p>Sadece bir paragraf.</p>", "<<<>>><h3>", "<ul><li>kapanmamış"} {
		got := extractor.Extract(html, "Başlık")
		assert.Empty(t, got.Ingredients, html)
		assert.Empty(t, got.Instructions, html)
		assert.Empty(t, got.ExpertNote, html)
		assert.Empty(t, got.VideoURL, html)
	}
}

func TestExtract_WatchURLWithExtraParams(t *testing.T) {
	html := `<a href="https://www.youtube.com/watch?feature=share&amp;v=Zx9_-Abc123">izle</a>`

	got := NewContentExtractor(nil).Extract(html, "")
	require.NotEmpty(t, got.VideoURL)
	assert.Equal(t, "https://www.youtube.com/watch?v=Zx9_-Abc123", got.VideoURL)
}
