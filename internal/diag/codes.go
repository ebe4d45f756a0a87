package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Синтаксис схемы
	SynUnexpectedToken     Code = 2001
	SynExpectIdentifier    Code = 2002
	SynExpectType          Code = 2003
	SynUnclosedBrace       Code = 2004
	SynUnclosedParen       Code = 2005
	SynExpectAttrName      Code = 2006
	SynExpectAttrArg       Code = 2007
	SynExpectTopLevel      Code = 2008
	SynExpectBridgeHeader  Code = 2009
	SynExpectString        Code = 2010
	SynTupleArity          Code = 2011
	SynExpectVariant       Code = 2012
	SynExpectColon         Code = 2013
	SynExpectImportAlias   Code = 2014

	// Резолюция деклараций
	ResDuplicateType     Code = 3001
	ResUnknownAttr       Code = 3002
	ResAttrConflict      Code = 3003
	ResBadAttrArg        Code = 3004
	ResDuplicateField    Code = 3005
	ResDuplicateVariant  Code = 3006
	ResUnknownImport     Code = 3007
	ResDuplicateImport   Code = 3008
	ResReservedTypeName  Code = 3009
	ResExternalWithBody  Code = 3010
	ResEmptyEnum         Code = 3011
	ResUnusedImport      Code = 3012
	ResDuplicateAttr     Code = 3013
	ResDuplicateModule   Code = 3014

	// Генерация
	GenUnresolvedType   Code = 4001
	GenUnsupportedShape Code = 4002
	GenRecursiveLayout  Code = 4003
	GenArmMismatch      Code = 4004

	// I/O
	IOLoadFileError  Code = 5001
	IOWriteFileError Code = 5002
	IOCreateDirError Code = 5003
	IOCacheError     Code = 5004

	// Проект / манифест
	PrjManifestNotFound   Code = 6001
	PrjManifestInvalid    Code = 6002
	PrjUnknownManifestKey Code = 6003
	PrjNoSchemaFiles      Code = 6004
	PrjBadTarget          Code = 6005
	PrjBadPrefix          Code = 6006
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectType:               "Expected type",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynExpectAttrName:           "Expected attribute name",
	SynExpectAttrArg:            "Expected attribute argument",
	SynExpectTopLevel:           "Expected struct, enum or extern declaration",
	SynExpectBridgeHeader:       "Schema must start with a bridge header",
	SynExpectString:             "Expected string literal",
	SynTupleArity:               "Tuple needs at least two element types",
	SynExpectVariant:            "Expected enum variant",
	SynExpectColon:              "Expected ':' between field name and type",
	SynExpectImportAlias:        "Expected identifier after 'as'",
	ResDuplicateType:            "Duplicate type declaration",
	ResUnknownAttr:              "Unknown attribute",
	ResAttrConflict:             "Conflicting attributes",
	ResBadAttrArg:               "Invalid attribute argument",
	ResDuplicateField:           "Duplicate field name",
	ResDuplicateVariant:         "Duplicate variant name",
	ResUnknownImport:            "Import path is not declared",
	ResDuplicateImport:          "Duplicate import alias",
	ResReservedTypeName:         "Type name is reserved",
	ResExternalWithBody:         "Externally declared type must not have a body",
	ResEmptyEnum:                "Enum needs at least one variant",
	ResUnusedImport:             "Import is never referenced",
	ResDuplicateAttr:            "Duplicate attribute",
	ResDuplicateModule:          "Duplicate bridge module name",
	GenUnresolvedType:           "Cannot resolve type",
	GenUnsupportedShape:         "Unsupported field shape",
	GenRecursiveLayout:          "Recursive type has no finite layout",
	GenArmMismatch:              "Conversion arm count does not match variant count",
	IOLoadFileError:             "Cannot read file",
	IOWriteFileError:            "Cannot write file",
	IOCreateDirError:            "Cannot create directory",
	IOCacheError:                "Generation cache unavailable",
	PrjManifestNotFound:         "ferry.toml not found",
	PrjManifestInvalid:          "Invalid ferry.toml",
	PrjUnknownManifestKey:       "Unknown key in ferry.toml",
	PrjNoSchemaFiles:            "No schema files found",
	PrjBadTarget:                "Unknown target triple",
	PrjBadPrefix:                "Invalid symbol prefix",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
