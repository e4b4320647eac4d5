// Package abuseguard fornece a camada de prevenção de abuso do bot de
// operações: detecção de padrões de exploração em texto não confiável,
// cooldown de comandos administrativos por ator e lista durável de banidos.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de I/O)
//   - application: casos de uso (varredura, cooldown, vaga no console) sem I/O
//   - infra: implementações concretas (janela deslizante, arquivos JSON/JSONL,
//     redis, token bucket), detalhes de infraestrutura
//   - abuseguard (este pacote): wiring + tabela de padrões + Guard, a
//     fachada que o front-end do bot (relay de chat, dispatcher) chama
//
// Fluxo no bot:
//
//  1. Linha de chat chega: relay chama Guard.Scan; resultado não-nil
//     suprime o repasse (e pode já ter banido o ator)
//  2. Comando administrativo chega: dispatcher chama Guard.CheckCommand
//     antes de executar; em negação, devolve o Retry-After ao operador
//  3. IsBanned barra, antes de tudo isso, qualquer entrada de ator banido
//
// Variáveis de ambiente do binário (cmd/sentinel) controlam o
// comportamento, como SENTINEL_DATA_DIR, TIER_ADMIN e PACER_RPS.
package abuseguard
