package i18n

import (
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/jeandeaual/go-locale"
)

var lang atomic.Value

func init() {
	lang.Store("en")
}

var translations = map[string]map[string]string{
	"Ready - No config loaded (will use default)": {
		"pt": "Pronto - Nenhuma configuração carregada (usará o padrão)",
		"es": "Listo - Sin configuración cargada (se usará la predeterminada)",
		"ru": "Готово - конфигурация не загружена (будет использована стандартная)",
	},
	"Loaded config from %s": {
		"pt": "Configuração carregada de %s",
		"es": "Configuración cargada desde %s",
		"ru": "Конфигурация загружена из %s",
	},
	"Config saved to %s": {
		"pt": "Configuração salva em %s",
		"es": "Configuración guardada en %s",
		"ru": "Конфигурация сохранена в %s",
	},
	"Error parsing config file": {
		"pt": "Erro ao interpretar o arquivo de configuração",
		"es": "Error al interpretar el archivo de configuración",
		"ru": "Ошибка разбора файла конфигурации",
	},
	"Error loading config: %v": {
		"pt": "Erro ao carregar configuração: %v",
		"es": "Error al cargar la configuración: %v",
		"ru": "Ошибка загрузки конфигурации: %v",
	},
	"Error saving config: %v": {
		"pt": "Erro ao salvar configuração: %v",
		"es": "Error al guardar la configuración: %v",
		"ru": "Ошибка сохранения конфигурации: %v",
	},
	"Remapping started": {
		"pt": "Remapeamento iniciado",
		"es": "Reasignación iniciada",
		"ru": "Переназначение запущено",
	},
	"Already running - click Stop first": {
		"pt": "Já em execução - clique em Parar primeiro",
		"es": "Ya en ejecución - pulse Detener primero",
		"ru": "Уже запущено - сначала нажмите Стоп",
	},
	"Stopping... (press any Naga button to complete)": {
		"pt": "Parando... (pressione qualquer botão do Naga para concluir)",
		"es": "Deteniendo... (pulse cualquier botón del Naga para completar)",
		"ru": "Остановка... (нажмите любую кнопку Naga для завершения)",
	},
	"Remapping stopped": {
		"pt": "Remapeamento parado",
		"es": "Reasignación detenida",
		"ru": "Переназначение остановлено",
	},
	"Remapping backend failed - see log": {
		"pt": "Falha no backend de remapeamento - veja o log",
		"es": "Falló el backend de reasignación - vea el registro",
		"ru": "Сбой движка переназначения - см. журнал",
	},
	"Not running": {
		"pt": "Não está em execução",
		"es": "No está en ejecución",
		"ru": "Не запущено",
	},
	"Cleared config - will use default": {
		"pt": "Configuração limpa - usará o padrão",
		"es": "Configuración borrada - se usará la predeterminada",
		"ru": "Конфигурация сброшена - будет использована стандартная",
	},
	"Reloaded config from %s": {
		"pt": "Configuração recarregada de %s",
		"es": "Configuración recargada desde %s",
		"ru": "Конфигурация перезагружена из %s",
	},
	"Mapping changed - restart remapping to apply": {
		"pt": "Mapeamento alterado - reinicie o remapeamento para aplicar",
		"es": "Asignación cambiada - reinicie la reasignación para aplicar",
		"ru": "Назначения изменены - перезапустите переназначение",
	},
	"Path copied to clipboard": {
		"pt": "Caminho copiado para a área de transferência",
		"es": "Ruta copiada al portapapeles",
		"ru": "Путь скопирован в буфер обмена",
	},
	"Remapping Active": {
		"pt": "Remapeamento Ativo",
		"es": "Reasignación Activa",
		"ru": "Переназначение активно",
	},
	"Remapping Inactive": {
		"pt": "Remapeamento Inativo",
		"es": "Reasignación Inactiva",
		"ru": "Переназначение неактивно",
	},
	"Start Remapping": {
		"pt": "Iniciar Remapeamento",
		"es": "Iniciar Reasignación",
		"ru": "Запустить переназначение",
	},
	"Stop Remapping": {
		"pt": "Parar Remapeamento",
		"es": "Detener Reasignación",
		"ru": "Остановить переназначение",
	},
	"Show Window": {
		"pt": "Mostrar Janela",
		"es": "Mostrar Ventana",
		"ru": "Показать окно",
	},
	"Quit": {
		"pt": "Sair",
		"es": "Salir",
		"ru": "Выход",
	},
	"Start": {
		"pt": "Iniciar",
		"es": "Iniciar",
		"ru": "Старт",
	},
	"Stop": {
		"pt": "Parar",
		"es": "Detener",
		"ru": "Стоп",
	},
	"Close": {
		"pt": "Fechar",
		"es": "Cerrar",
		"ru": "Закрыть",
	},
	"Key Mappings": {
		"pt": "Mapeamento de Teclas",
		"es": "Asignación de Teclas",
		"ru": "Назначение клавиш",
	},
	"Settings": {
		"pt": "Configurações",
		"es": "Ajustes",
		"ru": "Настройки",
	},
	"About": {
		"pt": "Sobre",
		"es": "Acerca de",
		"ru": "О программе",
	},
	"File": {
		"pt": "Arquivo",
		"es": "Archivo",
		"ru": "Файл",
	},
	"Browse...": {
		"pt": "Procurar...",
		"es": "Examinar...",
		"ru": "Обзор...",
	},
	"Save As...": {
		"pt": "Salvar Como...",
		"es": "Guardar Como...",
		"ru": "Сохранить как...",
	},
	"Button %d": {
		"pt": "Botão %d",
		"es": "Botón %d",
		"ru": "Кнопка %d",
	},
	"(unmapped)": {
		"pt": "(sem mapeamento)",
		"es": "(sin asignar)",
		"ru": "(не назначено)",
	},
	"ACTIVE": {
		"pt": "ATIVO",
		"es": "ACTIVO",
		"ru": "АКТИВНО",
	},
	"INACTIVE": {
		"pt": "INATIVO",
		"es": "INACTIVO",
		"ru": "НЕАКТИВНО",
	},
	"Uptime %s": {
		"pt": "Ativo há %s",
		"es": "Activo desde hace %s",
		"ru": "Работает %s",
	},
	"Config directory:": {
		"pt": "Diretório de configuração:",
		"es": "Directorio de configuración:",
		"ru": "Каталог конфигурации:",
	},
	"Copy": {
		"pt": "Copiar",
		"es": "Copiar",
		"ru": "Копировать",
	},
	"Currently loaded config:": {
		"pt": "Configuração carregada:",
		"es": "Configuración cargada:",
		"ru": "Загруженная конфигурация:",
	},
	"No config loaded": {
		"pt": "Nenhuma configuração carregada",
		"es": "Sin configuración cargada",
		"ru": "Конфигурация не загружена",
	},
	"Clear (Use Default)": {
		"pt": "Limpar (Usar Padrão)",
		"es": "Limpiar (Usar Predeterminada)",
		"ru": "Очистить (по умолчанию)",
	},
	"GUI Configuration Tool": {
		"pt": "Ferramenta de Configuração Gráfica",
		"es": "Herramienta de Configuración Gráfica",
		"ru": "Графический инструмент настройки",
	},
	"aboutBody": {
		"en": "This tool provides a graphical interface for config-2014-naga, which remaps Config 2014 Naga mouse buttons on Linux systems.\n\nUsage:\n• Start with default: click Start with no config loaded\n• Load custom config: browse for a .toml file\n• Edit mappings: load a config, modify, then save\n\nBackend CLI tool: config-2014-naga\nInstall with: cargo install config-2014-naga",
		"pt": "Esta ferramenta oferece uma interface gráfica para o config-2014-naga, que remapeia os botões do mouse Config 2014 Naga no Linux.\n\nUso:\n• Padrão: clique em Iniciar sem configuração carregada\n• Configuração própria: procure um arquivo .toml\n• Editar: carregue uma configuração, altere e salve\n\nFerramenta de linha de comando: config-2014-naga\nInstale com: cargo install config-2014-naga",
		"es": "Esta herramienta ofrece una interfaz gráfica para config-2014-naga, que reasigna los botones del ratón Config 2014 Naga en Linux.\n\nUso:\n• Predeterminado: pulse Iniciar sin configuración cargada\n• Configuración propia: busque un archivo .toml\n• Editar: cargue una configuración, modifíquela y guárdela\n\nHerramienta de línea de comandos: config-2014-naga\nInstalar con: cargo install config-2014-naga",
		"ru": "Эта программа предоставляет графический интерфейс для config-2014-naga, который переназначает кнопки мыши Config 2014 Naga в Linux.\n\nИспользование:\n• По умолчанию: нажмите Старт без загруженной конфигурации\n• Своя конфигурация: выберите файл .toml\n• Изменение: загрузите конфигурацию, измените и сохраните\n\nКонсольная утилита: config-2014-naga\nУстановка: cargo install config-2014-naga",
	},
	"Another instance is already running": {
		"pt": "Outra instância já está em execução",
		"es": "Ya hay otra instancia en ejecución",
		"ru": "Другой экземпляр уже запущен",
	},
}

// Init selects the UI language. A non-empty forced value wins over the
// system locale.
func Init(forced string) {
	if forced = strings.TrimSpace(forced); forced != "" {
		slog.Info("language forced by settings", "lang", forced)
		lang.Store(forced)
		return
	}

	userLocales, err := locale.GetLocales()
	if err != nil || len(userLocales) == 0 {
		slog.Info("could not get user locale, defaulting to english", "error", err)
		lang.Store("en")
		return
	}

	detected := userLocales[0]
	switch {
	case strings.HasPrefix(detected, "pt"):
		lang.Store("pt")
	case strings.HasPrefix(detected, "es"):
		lang.Store("es")
	case strings.HasPrefix(detected, "ru"):
		lang.Store("ru")
	default:
		lang.Store("en")
	}
	slog.Info("language set", "locale", detected, "lang", GetLang())
}

func T(key string) string {
	if translated, ok := translations[key][GetLang()]; ok {
		return translated
	}
	return key
}

func GetLang() string {
	return lang.Load().(string)
}
