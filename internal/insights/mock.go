package insights

import (
	"strings"

	"github.com/bobmcallan/aide-portal/internal/models"
)

// mockDataset holds curated demo records keyed by ticker. They still go
// through live enrichment before being returned.
var mockDataset = map[string]*models.InsightRecord{
	"9831.T": {
		Company:        "ヤマダホールディングス",
		Ticker:         "9831.T",
		Founded:        "1983年9月",
		Representative: "山田 昇",
		Location:       "群馬県高崎市",
		Capital:        "711億円",
		Strengths:      []string{"住宅×家電の連携による高単価販売", "プライベートブランド比率の上昇", "リフォーム・リユース事業の成長"},
		Risks:          []string{"家電単体販売の利益率が低い", "ECシフトへの対応が遅れ気味", "都市部での店舗網が限定的"},
		Outlook:        []string{"住宅・家電一体モデルの拡大余地", "DX化で在庫・人員源泉が進展", "低価格競争から脱却し収益構造へ"},
		Score:          72,
		Commentary:     "→「成熟×再成長」フェーズ。リフォーム事業が収益を押し上げ。",
		AnalysisSummary: "家電量販最大手として全国の店舗網を持ち、住宅・リフォームとの一体提案で客単価を引き上げている。" +
			"家電単体の利益率は低いものの、プライベートブランドとリユース事業が収益の下支えとなっており、成熟市場の中で再成長を狙う段階にある。",
	},
	"7419.T": {
		Company:        "ノジマ",
		Ticker:         "7419.T",
		Founded:        "1962年4月",
		Representative: "野島 廣司",
		Location:       "神奈川県横浜市",
		Capital:        "63億3,050万円",
		Strengths:      []string{"通信キャリア販売と家電の相乗効果", "提案型接客による高い顧客満足度", "グループ会社とのDX連携が進む"},
		Risks:          []string{"人件費や店舗運営コストの上昇", "非家電領域の収益基盤がまだ弱い", "全国展開スピードが緩やか"},
		Outlook:        []string{"通信×家電モデルの深化に期待", "EC併用で営業効率が向上傾向", "成長率は安定も収益性改善がカギ"},
		Score:          63,
		Commentary:     "→顧客接点の強さが武器。利益率改善に向けた再構築期。",
		AnalysisSummary: "メーカー派遣に頼らない自社社員の提案型接客と通信キャリアショップ運営が強み。" +
			"M&Aで事業領域を広げている一方、人件費上昇と非家電事業の収益化が課題で、利益率の改善が評価を左右する。",
	},
	"3048.T": {
		Company:        "ビックカメラ",
		Ticker:         "3048.T",
		Founded:        "1983年9月1日",
		Representative: "秋保 徹",
		Location:       "東京都豊島区",
		Capital:        "259億2,900万円",
		Strengths:      []string{"都市立地＋EC連携による高回転モデル", "グループ内仕入・物流の効率化", "家電以外（医薬・酒類・玩具）の多角化"},
		Risks:          []string{"家電量販業界の競争激化", "粗利率の変動が収益に直結", "地方展開が限定的"},
		Outlook:        []string{"オムニチャネルで収益安定化が進む", "顧客データ活用によりリピート率向上", "店舗リニューアルとEC統合の加速"},
		Score:          68,
		Commentary:     "→「都市型ECハイブリッド」の成功モデル。効率改善で上昇余地大。",
		AnalysisSummary: "ターミナル駅前の大型店とECを組み合わせた高回転モデルで、インバウンド需要の取り込みにも強い。" +
			"コジマを含むグループでの共同仕入が進む一方、粗利率の変動が業績に直結しやすく、効率改善の継続が鍵となる。",
	},
}

// findMock returns a copy of the demo record matching identifier by ticker
// key, company name or ticker, case-insensitively.
func findMock(identifier string) (*models.InsightRecord, bool) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, false
	}
	if rec, ok := mockDataset[identifier]; ok {
		return rec.Clone(), true
	}
	for _, rec := range mockDataset {
		if strings.EqualFold(rec.Company, identifier) || strings.EqualFold(rec.Ticker, identifier) {
			return rec.Clone(), true
		}
	}
	return nil, false
}
