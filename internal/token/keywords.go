package token

var keywords = map[string]Kind{
	"bridge": KwBridge,
	"import": KwImport,
	"as":     KwAs,
	"struct": KwStruct,
	"enum":   KwEnum,
	"extern": KwExtern,
	"type":   KwType,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые — только lowercase версии распознаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
