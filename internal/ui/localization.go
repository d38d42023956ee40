package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyDownload          = "download"
	KeyStop              = "stop"
	KeyInstall           = "install"
	KeyOpenFolder        = "open_folder"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyOutputDirectory   = "output_directory"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeyEnterURL          = "enter_url"
	KeyOptionsTab        = "options_tab"
	KeyOutputTab         = "output_tab"
	KeyAudioSource       = "audio_source"
	KeyLyricsSource      = "lyrics_source"
	KeyFormat            = "format"
	KeyBitrate           = "bitrate"
	KeyFFmpegArgs        = "ffmpeg_args"
	KeyThreads           = "threads"
	KeyAdvanced          = "advanced"
	KeyApplication       = "application"
	KeyToolPath          = "tool_path"
	KeyStopGrace         = "stop_grace"
	KeyEncoding          = "encoding"
	KeyStopOnComplete    = "stop_on_complete"
	KeyLogLevel          = "log_level"
	KeyDontFilter        = "dont_filter"
	KeyOnlyVerified      = "only_verified"
	KeyHeadless          = "headless"
	KeyNoCache           = "no_cache"
	KeyPreload           = "preload"
	KeyM3U               = "m3u"
	KeyFetchAlbums       = "fetch_albums"
	KeyGenerateLRC       = "generate_lrc"
	KeySponsorBlock      = "sponsor_block"
	KeyMaxRetries        = "max_retries"
	KeyMaxFilenameLength = "max_filename_length"
	KeyYTDLPArgs         = "ytdlp_args"
	KeyProxy             = "proxy"
	KeySettingsSaved     = "settings_saved"
	KeyRestartRequired   = "restart_required"
	KeyDownloadStarted   = "download_started"
	KeyDownloadCompleted = "download_completed"
	KeyDownloadStopped   = "download_stopped"
	KeyDownloadFailed    = "download_failed"
	KeyStoppingDownload  = "stopping_download"
	KeyInvalidInput      = "invalid_input"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyAlreadyRunning    = "already_running"
	KeyNoActiveJob       = "no_active_job"
	KeyToolMissing       = "tool_missing"
	KeyCheckingTool      = "checking_tool"
	KeyToolReady         = "tool_ready"
	KeyToolInstalled     = "tool_installed"
	KeyFFmpegFinished    = "ffmpeg_finished"
	KeyErrorOpeningDir   = "error_opening_dir"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "SpotDL Desktop",
		KeyDownload:          "Download",
		KeyStop:              "Stop",
		KeyInstall:           "Install / Check",
		KeyOpenFolder:        "Open Folder",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyOutputDirectory:   "Output Directory",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeyEnterURL:          "Enter Spotify URL (https://open.spotify.com/playlist/...)",
		KeyOptionsTab:        "Options",
		KeyOutputTab:         "Output",
		KeyAudioSource:       "Audio Source",
		KeyLyricsSource:      "Lyrics Source",
		KeyFormat:            "Format",
		KeyBitrate:           "Bitrate",
		KeyFFmpegArgs:        "FFmpeg Arguments",
		KeyThreads:           "Threads",
		KeyAdvanced:          "Advanced",
		KeyApplication:       "Application",
		KeyToolPath:          "spotdl Executable",
		KeyStopGrace:         "Stop Grace Period (seconds)",
		KeyEncoding:          "Output Encoding",
		KeyStopOnComplete:    "Stop spotdl when all songs are done",
		KeyLogLevel:          "Log Level",
		KeyDontFilter:        "Don't filter results",
		KeyOnlyVerified:      "Only verified results",
		KeyHeadless:          "Headless",
		KeyNoCache:           "No cache",
		KeyPreload:           "Preload",
		KeyM3U:               "Create M3U playlist",
		KeyFetchAlbums:       "Fetch albums",
		KeyGenerateLRC:       "Generate LRC files",
		KeySponsorBlock:      "Use SponsorBlock",
		KeyMaxRetries:        "Max Retries",
		KeyMaxFilenameLength: "Max Filename Length",
		KeyYTDLPArgs:         "yt-dlp Arguments",
		KeyProxy:             "Proxy",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyRestartRequired:   "Tool settings take effect after restart",
		KeyDownloadStarted:   "Download started",
		KeyDownloadCompleted: "Download completed",
		KeyDownloadStopped:   "Download stopped",
		KeyDownloadFailed:    "Download failed",
		KeyStoppingDownload:  "Stopping download...",
		KeyInvalidInput:      "Invalid input",
		KeyPleaseEnterURL:    "Please enter a URL",
		KeyAlreadyRunning:    "A download is already running",
		KeyNoActiveJob:       "No active download to stop",
		KeyToolMissing:       "spotdl could not be started",
		KeyCheckingTool:      "Checking spotdl installation...",
		KeyToolReady:         "spotdl is ready",
		KeyToolInstalled:     "spotdl installed",
		KeyFFmpegFinished:    "FFmpeg setup finished",
		KeyErrorOpeningDir:   "Error opening folder",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "SpotDL Desktop",
		KeyDownload:          "Скачать",
		KeyStop:              "Стоп",
		KeyInstall:           "Установка / Проверка",
		KeyOpenFolder:        "Открыть папку",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyOutputDirectory:   "Папка сохранения",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeyEnterURL:          "Введите URL Spotify (https://open.spotify.com/playlist/...)",
		KeyOptionsTab:        "Параметры",
		KeyOutputTab:         "Вывод",
		KeyAudioSource:       "Источник аудио",
		KeyLyricsSource:      "Источник текстов",
		KeyFormat:            "Формат",
		KeyBitrate:           "Битрейт",
		KeyFFmpegArgs:        "Аргументы FFmpeg",
		KeyThreads:           "Потоки",
		KeyAdvanced:          "Дополнительно",
		KeyApplication:       "Приложение",
		KeyToolPath:          "Исполняемый файл spotdl",
		KeyStopGrace:         "Время на остановку (секунды)",
		KeyEncoding:          "Кодировка вывода",
		KeyStopOnComplete:    "Останавливать spotdl после всех песен",
		KeyLogLevel:          "Уровень журнала",
		KeyDontFilter:        "Не фильтровать результаты",
		KeyOnlyVerified:      "Только проверенные результаты",
		KeyHeadless:          "Без окна браузера",
		KeyNoCache:           "Без кэша",
		KeyPreload:           "Предзагрузка",
		KeyM3U:               "Создать плейлист M3U",
		KeyFetchAlbums:       "Загружать альбомы",
		KeyGenerateLRC:       "Создавать файлы LRC",
		KeySponsorBlock:      "Использовать SponsorBlock",
		KeyMaxRetries:        "Макс. повторов",
		KeyMaxFilenameLength: "Макс. длина имени файла",
		KeyYTDLPArgs:         "Аргументы yt-dlp",
		KeyProxy:             "Прокси",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyRestartRequired:   "Настройки spotdl применятся после перезапуска",
		KeyDownloadStarted:   "Загрузка начата",
		KeyDownloadCompleted: "Загрузка завершена",
		KeyDownloadStopped:   "Загрузка остановлена",
		KeyDownloadFailed:    "Ошибка загрузки",
		KeyStoppingDownload:  "Остановка загрузки...",
		KeyInvalidInput:      "Неверные данные",
		KeyPleaseEnterURL:    "Пожалуйста, введите URL",
		KeyAlreadyRunning:    "Загрузка уже выполняется",
		KeyNoActiveJob:       "Нет активной загрузки",
		KeyToolMissing:       "Не удалось запустить spotdl",
		KeyCheckingTool:      "Проверка установки spotdl...",
		KeyToolReady:         "spotdl готов",
		KeyToolInstalled:     "spotdl установлен",
		KeyFFmpegFinished:    "Настройка FFmpeg завершена",
		KeyErrorOpeningDir:   "Ошибка открытия папки",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "SpotDL Desktop",
		KeyDownload:          "Baixar",
		KeyStop:              "Parar",
		KeyInstall:           "Instalar / Verificar",
		KeyOpenFolder:        "Abrir Pasta",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyOutputDirectory:   "Diretório de Saída",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeyEnterURL:          "Digite URL do Spotify (https://open.spotify.com/playlist/...)",
		KeyOptionsTab:        "Opções",
		KeyOutputTab:         "Saída",
		KeyAudioSource:       "Fonte de Áudio",
		KeyLyricsSource:      "Fonte de Letras",
		KeyFormat:            "Formato",
		KeyBitrate:           "Taxa de Bits",
		KeyFFmpegArgs:        "Argumentos do FFmpeg",
		KeyThreads:           "Threads",
		KeyAdvanced:          "Avançado",
		KeyApplication:       "Aplicativo",
		KeyToolPath:          "Executável do spotdl",
		KeyStopGrace:         "Tempo para Parar (segundos)",
		KeyEncoding:          "Codificação da Saída",
		KeyStopOnComplete:    "Parar o spotdl ao concluir todas as músicas",
		KeyLogLevel:          "Nível de Log",
		KeyDontFilter:        "Não filtrar resultados",
		KeyOnlyVerified:      "Apenas resultados verificados",
		KeyHeadless:          "Sem interface",
		KeyNoCache:           "Sem cache",
		KeyPreload:           "Pré-carregar",
		KeyM3U:               "Criar playlist M3U",
		KeyFetchAlbums:       "Buscar álbuns",
		KeyGenerateLRC:       "Gerar arquivos LRC",
		KeySponsorBlock:      "Usar SponsorBlock",
		KeyMaxRetries:        "Máx. Tentativas",
		KeyMaxFilenameLength: "Tamanho Máx. do Nome",
		KeyYTDLPArgs:         "Argumentos do yt-dlp",
		KeyProxy:             "Proxy",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeyRestartRequired:   "As configurações do spotdl valem após reiniciar",
		KeyDownloadStarted:   "Download iniciado",
		KeyDownloadCompleted: "Download concluído",
		KeyDownloadStopped:   "Download interrompido",
		KeyDownloadFailed:    "Falha no download",
		KeyStoppingDownload:  "Parando download...",
		KeyInvalidInput:      "Entrada inválida",
		KeyPleaseEnterURL:    "Por favor, digite uma URL",
		KeyAlreadyRunning:    "Um download já está em andamento",
		KeyNoActiveJob:       "Nenhum download ativo",
		KeyToolMissing:       "Não foi possível iniciar o spotdl",
		KeyCheckingTool:      "Verificando instalação do spotdl...",
		KeyToolReady:         "spotdl está pronto",
		KeyToolInstalled:     "spotdl instalado",
		KeyFFmpegFinished:    "Configuração do FFmpeg concluída",
		KeyErrorOpeningDir:   "Erro ao abrir pasta",
	}
}
