package i18n

// Translator retrieves localized messages for issue codes. data provides
// optional metadata to embed in the message (for example, "document" or
// "collection").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "null":
			return "null は許可されていません"
		case "required":
			return "必須フィールドが不足しています"
		case "invalid_type":
			return "型が不正です"
		case "invalid_format":
			return "形式が不正です"
		case "invalid_id":
			return "ID が不正です"
		case "invalid_input":
			return "入力が不正です"
		case "unknown_field":
			return "未知のフィールドです"
		case "unknown_document":
			return "未知のドキュメントです: " + data["document"]
		case "not_created":
			return "未保存のドキュメントは参照できません"
		case "bad_collection":
			return "参照先コレクションが一致しません: " + data["collection"]
		case "bad_reference":
			return "参照型が一致しません: " + data["document"]
		case "generic_reference":
			return "汎用参照には id と cls が必要です"
		case "unique":
			return "値が一意ではありません"
		case "unique_compound":
			return "フィールド " + data["fields"] + " の組は一意でなければなりません"
		case "too_short":
			return "短すぎます"
		case "too_long":
			return "長すぎます"
		case "too_small":
			return "小さすぎます"
		case "too_big":
			return "大きすぎます"
		case "pattern":
			return "パターンに一致しません"
		case "invalid_enum":
			return "許可されていない値です"
		}
	default: // "en"
		switch code {
		case "null":
			return "field may not be null"
		case "required":
			return "missing data for required field"
		case "invalid_type":
			return "invalid type"
		case "invalid_format":
			return "invalid format"
		case "invalid_id":
			return "invalid id"
		case "invalid_input":
			return "invalid input"
		case "unknown_field":
			return "unknown field"
		case "unknown_document":
			return "unknown document " + data["document"]
		case "not_created":
			return "cannot reference a document that has not been created yet"
		case "bad_collection":
			return "reference must be on collection " + data["collection"]
		case "bad_reference":
			return data["document"] + " reference expected"
		case "generic_reference":
			return "generic reference must have id and cls fields"
		case "unique":
			return "field value must be unique"
		case "unique_compound":
			return "values of fields " + data["fields"] + " must be unique together"
		case "too_short":
			return "too short"
		case "too_long":
			return "too long"
		case "too_small":
			return "too small"
		case "too_big":
			return "too big"
		case "pattern":
			return "does not match expected pattern"
		case "invalid_enum":
			return "not an allowed value"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). Passing nil restores the built-in English one.
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
// Unknown codes fall back to the code itself.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
