package insights

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/aide-portal/internal/models"
)

const analystSystemPrompt = "あなたは日本株を専門とする金融アナリストAIです。出力は必ずJSONオブジェクトのみとし、説明文やMarkdown記号を含めないでください。"

const inferenceSystemPrompt = "あなたは日本の上場企業に詳しいアシスタントです。出力は必ずJSONオブジェクトのみとしてください。"

// buildInsightPrompt renders the analysis request for the canonical identity,
// seeded with the resolved profile when one exists.
func buildInsightPrompt(company, ticker string, profile *models.CompanyProfile, year int) string {
	var b strings.Builder

	b.WriteString("指定された日本企業または証券コードに関する最新の公開情報（決算・IR・ニュース等）を参考に、\n")
	b.WriteString("投資判断に役立つ「強み」「課題」「見通し」を簡潔に抽出し、総合スコアを算出してください。\n\n")
	fmt.Fprintf(&b, "入力: %s（証券コード: %s）\n", company, ticker)
	b.WriteString(profileContext(profile))

	fmt.Fprintf(&b, `
以下の条件で出力してください：
- 出力形式は必ず JSON のみ（説明文やMarkdown記号は不要）
- 各項目は可能な限り%[1]d年時点で最新の公開情報を用いる
- 最新性を確認できた最も遅い年月を lastUpdated（例: "%[1]d年3月時点"）として付与する
- 最新情報が不明な場合は代表者などの項目に「情報未確認（◯◯年時点）」等の注記を入れる
- 代表者は原則として最新の代表取締役社長・CEO等の経営トップの氏名と役職を明記する
- 指定された証券コード（%[2]s）に該当する企業のみを対象とし、他社の情報を混在させない
- 出力する ticker は必ず "%[2]s" とし、判別不能な場合も同値を維持する
- company は可能な限り "%[3]s" の正式名称を用いる
- 各配列の最大要素数は strengths・risks・outlook いずれも3件（各30文字以内）
- スコアは 0〜100 の整数値
- commentary は総合スコアの簡潔な説明（50文字以内）
- analysisSummary は事業内容と投資判断のポイントをまとめた200文字程度の総合分析
- 企業情報（設立年、代表者、所在地、資本金）も含める
- 日本語で出力する

出力フォーマット例：
{
  "company": "企業名",
  "ticker": "%[2]s",
  "founded": "1983年9月",
  "representative": "代表者名（役職）",
  "location": "所在地（都道府県・市区町村）",
  "capital": "資本金",
  "lastUpdated": "%[1]d年3月時点",
  "strengths": ["強み1", "強み2", "強み3"],
  "risks": ["課題1", "課題2", "課題3"],
  "outlook": ["見通し1", "見通し2", "見通し3"],
  "score": 70,
  "commentary": "→スコアの簡潔な説明文。",
  "analysisSummary": "総合分析の文章。",
  "website": "https://example.co.jp"
}`, year, ticker, company)

	return b.String()
}

func profileContext(p *models.CompanyProfile) string {
	if p == nil {
		return ""
	}
	orUnknown := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "不明"
		}
		return s
	}
	return fmt.Sprintf("\n参考情報（外部データ）:\n- 証券コード: %s\n- 企業名候補: %s\n- 業種: %s\n- セクター: %s\n- 本社所在地: %s\n- 公式サイト: %s\n",
		orUnknown(p.Symbol),
		orUnknown(p.DisplayName()),
		orUnknown(p.Industry),
		orUnknown(p.Sector),
		orUnknown(p.Headquarters),
		orUnknown(p.Website),
	)
}

// buildInferencePrompt asks for the listed company behind a free-text query.
func buildInferencePrompt(identifier string) string {
	return fmt.Sprintf(`次の入力が指す日本の上場企業を推定してください。
入力: %s

- 出力は {"ticker": "証券コード（例: 7203.T）", "company": "正式な企業名"} 形式のJSONのみ
- 該当企業を特定できない場合は {"ticker": "", "company": ""} を返す`, identifier)
}
