package syntax

// Kind identifies the syntactic category of a node or token. The set is
// closed: the classifier dispatches exhaustively over it.
type Kind uint16

const (
	KindError Kind = iota

	// Nodes.
	KindSourceFile
	KindFnDef
	KindStructDef
	KindEnumDef
	KindEnumVariantDef
	KindUnionDef
	KindTraitDef
	KindTypeAliasDef
	KindConstDef
	KindStaticDef
	KindModule
	KindRecordFieldDef
	KindRecordFieldList
	KindParamList
	KindParam
	KindTypeParamList
	KindTypeParam
	KindLifetimeParam
	KindLabel
	KindBlockExpr
	KindLetStmt
	KindExprStmt
	KindBindPat
	KindCallExpr
	KindArgList
	KindMacroCall
	KindTokenTree
	KindPath
	KindPathSegment
	KindPathExpr
	KindName
	KindNameRef
	KindAttr
	KindRecordLit
	KindRecordFieldLit
	KindRecordFieldLitList
	KindBinExpr
	KindParenExpr
	KindRefType
	KindRefExpr
	KindReturnExpr
	KindBreakExpr
	KindContinueExpr
	KindIfExpr
	KindWhileExpr
	KindLoopExpr
	KindForExpr
	KindMatchExpr
	KindMatchArmList
	KindMatchArm
	KindCondition
	KindUnsafeBlockExpr

	// Tokens.
	KindIdent
	KindIntNumber
	KindFloatNumber
	KindString
	KindRawString
	KindByteString
	KindRawByteString
	KindByte
	KindChar
	KindLifetime
	KindComment
	KindWhitespace
	KindBang
	KindPunct

	// Keyword tokens. KwFn through KwCrate must stay contiguous: IsKeyword
	// is a range check.
	KwFn
	KwLet
	KwMut
	KwRef
	KwIf
	KwElse
	KwFor
	KwWhile
	KwLoop
	KwMatch
	KwReturn
	KwBreak
	KwContinue
	KwUnsafe
	KwStruct
	KwEnum
	KwUnion
	KwTrait
	KwType
	KwConst
	KwStatic
	KwImpl
	KwMod
	KwUse
	KwPub
	KwIn
	KwAs
	KwMove
	KwWhere
	KwSelfValue
	KwSuper
	KwCrate
)

// IsKeyword reports whether the kind is a keyword token.
func (k Kind) IsKeyword() bool {
	return k >= KwFn && k <= KwCrate
}

// IsLiteralToken reports whether the kind is a literal token whose whole
// range is highlighted as-is.
func (k Kind) IsLiteralToken() bool {
	switch k {
	case KindIntNumber, KindFloatNumber, KindString, KindRawString,
		KindByteString, KindRawByteString, KindByte, KindChar:
		return true
	}
	return false
}

var kindNames = map[Kind]string{
	KindError:           "ERROR",
	KindSourceFile:      "SOURCE_FILE",
	KindFnDef:           "FN_DEF",
	KindStructDef:       "STRUCT_DEF",
	KindEnumDef:         "ENUM_DEF",
	KindEnumVariantDef:  "ENUM_VARIANT_DEF",
	KindUnionDef:        "UNION_DEF",
	KindTraitDef:        "TRAIT_DEF",
	KindTypeAliasDef:    "TYPE_ALIAS_DEF",
	KindConstDef:        "CONST_DEF",
	KindStaticDef:       "STATIC_DEF",
	KindModule:          "MODULE",
	KindRecordFieldDef:  "RECORD_FIELD_DEF",
	KindRecordFieldList: "RECORD_FIELD_LIST",
	KindParamList:       "PARAM_LIST",
	KindParam:           "PARAM",
	KindTypeParamList:   "TYPE_PARAM_LIST",
	KindTypeParam:       "TYPE_PARAM",
	KindLifetimeParam:   "LIFETIME_PARAM",
	KindLabel:           "LABEL",
	KindBlockExpr:       "BLOCK_EXPR",
	KindLetStmt:         "LET_STMT",
	KindExprStmt:        "EXPR_STMT",
	KindBindPat:         "BIND_PAT",
	KindCallExpr:        "CALL_EXPR",
	KindArgList:         "ARG_LIST",
	KindMacroCall:       "MACRO_CALL",
	KindTokenTree:       "TOKEN_TREE",
	KindPath:            "PATH",
	KindPathSegment:     "PATH_SEGMENT",
	KindPathExpr:        "PATH_EXPR",
	KindName:            "NAME",
	KindNameRef:         "NAME_REF",
	KindAttr:            "ATTR",
	KindRecordLit:       "RECORD_LIT",
	KindRecordFieldLit:  "RECORD_FIELD_LIT",

	KindRecordFieldLitList: "RECORD_FIELD_LIT_LIST",
	KindBinExpr:            "BIN_EXPR",
	KindParenExpr:          "PAREN_EXPR",
	KindRefType:            "REF_TYPE",
	KindRefExpr:            "REF_EXPR",
	KindReturnExpr:         "RETURN_EXPR",
	KindBreakExpr:          "BREAK_EXPR",
	KindContinueExpr:       "CONTINUE_EXPR",
	KindIfExpr:             "IF_EXPR",
	KindWhileExpr:          "WHILE_EXPR",
	KindLoopExpr:           "LOOP_EXPR",
	KindForExpr:            "FOR_EXPR",
	KindMatchExpr:          "MATCH_EXPR",
	KindMatchArmList:       "MATCH_ARM_LIST",
	KindMatchArm:           "MATCH_ARM",
	KindCondition:          "CONDITION",
	KindUnsafeBlockExpr:    "UNSAFE_BLOCK_EXPR",

	KindIdent:         "IDENT",
	KindIntNumber:     "INT_NUMBER",
	KindFloatNumber:   "FLOAT_NUMBER",
	KindString:        "STRING",
	KindRawString:     "RAW_STRING",
	KindByteString:    "BYTE_STRING",
	KindRawByteString: "RAW_BYTE_STRING",
	KindByte:          "BYTE",
	KindChar:          "CHAR",
	KindLifetime:      "LIFETIME",
	KindComment:       "COMMENT",
	KindWhitespace:    "WHITESPACE",
	KindBang:          "BANG",
	KindPunct:         "PUNCT",

	KwFn:        "FN_KW",
	KwLet:       "LET_KW",
	KwMut:       "MUT_KW",
	KwRef:       "REF_KW",
	KwIf:        "IF_KW",
	KwElse:      "ELSE_KW",
	KwFor:       "FOR_KW",
	KwWhile:     "WHILE_KW",
	KwLoop:      "LOOP_KW",
	KwMatch:     "MATCH_KW",
	KwReturn:    "RETURN_KW",
	KwBreak:     "BREAK_KW",
	KwContinue:  "CONTINUE_KW",
	KwUnsafe:    "UNSAFE_KW",
	KwStruct:    "STRUCT_KW",
	KwEnum:      "ENUM_KW",
	KwUnion:     "UNION_KW",
	KwTrait:     "TRAIT_KW",
	KwType:      "TYPE_KW",
	KwConst:     "CONST_KW",
	KwStatic:    "STATIC_KW",
	KwImpl:      "IMPL_KW",
	KwMod:       "MOD_KW",
	KwUse:       "USE_KW",
	KwPub:       "PUB_KW",
	KwIn:        "IN_KW",
	KwAs:        "AS_KW",
	KwMove:      "MOVE_KW",
	KwWhere:     "WHERE_KW",
	KwSelfValue: "SELF_KW",
	KwSuper:     "SUPER_KW",
	KwCrate:     "CRATE_KW",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Keywords maps source text to keyword kinds. Shared by the bundled front
// end and by anything else that produces trees.
var Keywords = map[string]Kind{
	"fn":       KwFn,
	"let":      KwLet,
	"mut":      KwMut,
	"ref":      KwRef,
	"if":       KwIf,
	"else":     KwElse,
	"for":      KwFor,
	"while":    KwWhile,
	"loop":     KwLoop,
	"match":    KwMatch,
	"return":   KwReturn,
	"break":    KwBreak,
	"continue": KwContinue,
	"unsafe":   KwUnsafe,
	"struct":   KwStruct,
	"enum":     KwEnum,
	"union":    KwUnion,
	"trait":    KwTrait,
	"type":     KwType,
	"const":    KwConst,
	"static":   KwStatic,
	"impl":     KwImpl,
	"mod":      KwMod,
	"use":      KwUse,
	"pub":      KwPub,
	"in":       KwIn,
	"as":       KwAs,
	"move":     KwMove,
	"where":    KwWhere,
	"self":     KwSelfValue,
	"super":    KwSuper,
	"crate":    KwCrate,
}
