package keyword

import (
	"github.com/kailas-cloud/heptuple/internal/domain/dimension"
	"github.com/kailas-cloud/heptuple/internal/domain/language"
)

// defaultEntries is the built-in taxonomy, five keywords per dimension and language.
var defaultEntries = Entries{
	dimension.Mysteries: {
		language.Arabic:  {"غيب", "سر", "مجهول", "خفية", "أسرار"},
		language.French:  {"mystère", "secret", "inconnu", "caché", "mystérieux"},
		language.English: {"mystery", "secret", "unknown", "hidden", "mysterious"},
	},
	dimension.Creation: {
		language.Arabic:  {"خلق", "خلقنا", "السماء", "الأرض", "الكون"},
		language.French:  {"création", "créé", "ciel", "terre", "univers"},
		language.English: {"creation", "created", "heaven", "earth", "universe"},
	},
	dimension.Attributes: {
		language.Arabic:  {"الرحمن", "الرحيم", "العزيز", "الحكيم", "السميع"},
		language.French:  {"miséricordieux", "sage", "puissant", "entendant", "voyant"},
		language.English: {"merciful", "wise", "powerful", "hearing", "seeing"},
	},
	dimension.Eschatology: {
		language.Arabic:  {"القيامة", "الآخرة", "الجنة", "النار", "الحساب"},
		language.French:  {"résurrection", "au-delà", "paradis", "enfer", "jugement"},
		language.English: {"resurrection", "hereafter", "paradise", "hell", "judgment"},
	},
	dimension.Oneness: {
		language.Arabic:  {"الله", "واحد", "أحد", "لا إله إلا الله", "التوحيد"},
		language.French:  {"dieu", "un", "unique", "unicité", "adoration"},
		language.English: {"god", "one", "unique", "oneness", "worship"},
	},
	dimension.Guidance: {
		language.Arabic:  {"الهداية", "الرشد", "الصراط المستقيم", "الخير", "الحق"},
		language.French:  {"guidance", "droiture", "chemin droit", "bien", "vérité"},
		language.English: {"guidance", "righteousness", "straight path", "good", "truth"},
	},
	dimension.Misguidance: {
		language.Arabic:  {"الضلال", "الغواية", "الشر", "الباطل", "الظلم"},
		language.French:  {"égarement", "tentation", "mal", "faux", "injustice"},
		language.English: {"misguidance", "temptation", "evil", "false", "injustice"},
	},
}

// Default returns the built-in taxonomy.
func Default() *Table {
	return MustNew(defaultEntries)
}
