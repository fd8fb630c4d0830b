package config

type Config struct {
	Journal  JournalConf  `json:"journal"`
	Binance  BinanceConf  `json:"binance"`
	Telegram TelegramConf `json:"telegram"`
	Snapshot SnapshotConf `json:"snapshot"`
}

type JournalConf struct {
	DefaultCurrency string `json:"default_currency"` // 统计展示的默认币种，空时取 USD
	SuggestLimit    int    `json:"suggest_limit"`    // 行情联想返回数量上限，默认10
}

type BinanceConf struct {
	Enabled  bool   `json:"enabled"`   // 是否启用行情联想
	APIKey   string `json:"api_key"`
	Secret   string `json:"secret"`
	ProxyURL string `json:"proxy_url"` // 代理地址，例如: http://127.0.0.1:7890
}

type TelegramConf struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	ChatID  string `json:"chat_id"`
}

type SnapshotConf struct {
	Enabled bool   `json:"enabled"` // 是否启用账户权益快照任务
	Spec    string `json:"spec"`    // cron 表达式，默认每天零点
}
